/*
Package common contains helpers shared by the contracts of this repository:
witness checks guarding privileged methods and contract versioning used on
update.

The package is compiled into contracts by the neo-go compiler, so it only
depends on interop packages.
*/
package common
