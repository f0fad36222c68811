// Command gifdump prints a GIF's container structure and optionally dumps
// every decoded frame as a PNG.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/illusionman1212/gifproc"
	"github.com/illusionman1212/gifproc/canvas"
)

func main() {
	outDir := flag.String("o", "", "directory to dump decoded frames into as PNGs (optional)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-o outdir] <file.gif>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *outDir); err != nil {
		fmt.Fprintf(os.Stderr, "gifdump: %v\n", err)
		os.Exit(1)
	}
}

func run(path, outDir string) error {
	g, err := gifproc.OpenFile(path)
	if err != nil {
		return err
	}

	fmt.Printf("GIF version: %s\n", g.Version())
	fmt.Printf("canvas size: %dx%d\n", g.Width(), g.Height())
	fmt.Printf("frame count: %d\n", g.FrameCount())
	fmt.Printf("loop count: %d\n", g.LoopCount())
	for _, c := range g.Comments() {
		fmt.Printf("comment: %s\n", c)
	}

	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return err
		}
	}

	return g.ForEachFrame(func(c *canvas.Canvas, delay uint16, index int) error {
		fmt.Printf("frame %d: delay=%dms\n", index, int(delay)*10)
		if outDir == "" {
			return nil
		}
		name := fmt.Sprintf("%s/frame-%03d.png", outDir, index)
		return writeRGBAPNG(name, c.Pix, c.Width, c.Height)
	})
}
