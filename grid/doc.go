/*
	Package grid provides types, constants, and functions that have no other dependencies
	and can be used by all packages within amrgrid.  This includes axis-aligned bounds,
	the grid description that fixes the orientation of uniform grid blocks, the Block
	interface every payload stored in an AMR container must satisfy, and logging.
*/
package grid
