/*
Package geometry converts between the three coordinate spaces the agent works in.

  - Region-relative: a normalized point inside a Region.
  - Display-relative: a normalized point on the selected display.
  - Global: absolute pixels across all monitors, including the display's offset.

Every click and drag target produced by a state flows through this package. A conversion
that would produce a crop or a target with no pixel area fails with domain.ErrInvalidGeometry.
*/
package geometry
