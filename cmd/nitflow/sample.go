package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/nitflow/internal/logger"
	"github.com/samcharles93/nitflow/internal/manifest"
	"github.com/samcharles93/nitflow/internal/raster"
	"github.com/samcharles93/nitflow/pkg/flow"
	"github.com/samcharles93/nitflow/pkg/nitf"
)

type pixelSample struct {
	Image   int
	ID      string
	Row     int
	Column  int
	Format  string
	Bands   []nitf.Band
	Samples []float64
}

func sampleCmd() *cli.Command {
	var (
		image int
		row   int
		col   int
	)

	return &cli.Command{
		Name:  "sample",
		Usage: "Read the band samples of one pixel of an image segment",
		Flags: []cli.Flag{
			manifestFlag(),
			&cli.IntFlag{Name: "image", Usage: "image segment index", Value: 0, Destination: &image},
			&cli.IntFlag{Name: "row", Usage: "pixel row", Required: true, Destination: &row},
			&cli.IntFlag{Name: "col", Usage: "pixel column", Required: true, Destination: &col},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			log := logger.FromContext(ctx)

			path, err := resolveManifest()
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			fl, err := manifest.Open(path, manifest.WithLogger(log))
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: open manifest: %v", err), 1)
			}
			px, err := samplePixel(fl, image, row, col)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: sample: %v", err), 1)
			}
			printPixel(os.Stdout, px)
			return nil
		},
	}
}

// samplePixel stops the image pass at the requested segment and ends the flow.
func samplePixel(fl *flow.Flow, image, row, col int) (*pixelSample, error) {
	var px *pixelSample
	i := 0
	err := fl.ForEachImageSegment(func(seg *nitf.ImageSegment) error {
		if i != image {
			i++
			return nil
		}
		sampler, err := raster.NewSampler(seg)
		if err != nil {
			return err
		}
		samples, err := sampler.Pixel(seg.Payload.Stream(), row, col)
		if err != nil {
			return err
		}
		px = &pixelSample{
			Image:   image,
			ID:      seg.Identifier(),
			Row:     row,
			Column:  col,
			Format:  sampler.Format().String(),
			Bands:   seg.Bands,
			Samples: samples,
		}
		return flow.ErrStop
	}).End()
	if err != nil {
		return nil, err
	}
	if px == nil {
		return nil, fmt.Errorf("image %d not found", image)
	}
	return px, nil
}

func printPixel(w io.Writer, px *pixelSample) {
	fmt.Fprintf(w, "image %d (%s) row=%d col=%d format=%s\n", px.Image, px.ID, px.Row, px.Column, px.Format)
	for b, v := range px.Samples {
		label := strconv.Itoa(b)
		if b < len(px.Bands) && strings.TrimSpace(px.Bands[b].Representation) != "" {
			label += " " + px.Bands[b].Representation
		}
		fmt.Fprintf(w, "  band %-8s %s\n", label, strconv.FormatFloat(v, 'g', -1, 64))
	}
}
