// Package report draws the charts of a finished run: eight overview panels
// (wheel speeds, XY path, commands, heading, curvilinear distance, X and Y)
// and six optional state-relation panels.
//
// [Terminal] prints them with asciigraph and a braille canvas; [WritePNG]
// and [SavePNG] render them with gonum/plot.
package report
