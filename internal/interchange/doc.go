// Package interchange handles the filename conventions of the open timeline
// interchange format.
//
// The format's internal structure is owned entirely by the vendor's
// conversion routine; this package only reasons about extensions, default
// timeline names, and destination directories.
package interchange
