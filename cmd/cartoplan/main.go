// Command cartoplan renders a built-in sample map into a draw plan and
// prints it. It exists to exercise the carto packages end to end.
//
// Usage:
//
//	cartoplan plan [--profile file.icc] [--intent relative] [--watch]
//	cartoplan colour 'cmyk(0,50%,100%,0)' '#3366cc'
package main

func main() {
	Execute()
}
