// Package hideutil implements the "hide utility class constructor" recipe
// (RSPEC-1118): classes made only of static fields and methods must not be
// instantiable, so their constructor is made private, or a private one is
// added when none is declared.
package hideutil
