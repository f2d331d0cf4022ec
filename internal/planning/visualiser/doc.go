// Package visualiser renders expansion trees for offline inspection.
//
// SaveTopDownPNG draws every trajectory projected onto the XY plane with
// gonum/plot, coloured by tree depth. RenderScatter3D writes an interactive
// go-echarts page with one 3D scatter series per depth.
package visualiser
