// Package export renders exploration results: PNG plots of the occupancy
// grid and coverage over time via gonum/plot, and an interactive HTML view of
// the grid via go-echarts. Output goes through fsutil so runs can be exported
// to disk or captured in memory.
package export
