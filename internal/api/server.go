package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/nitflow/internal/logger"
	"github.com/samcharles93/nitflow/internal/raster"
	"github.com/samcharles93/nitflow/pkg/flow"
	"github.com/samcharles93/nitflow/pkg/nitf"
)

// Source hands out a fresh flow per request. The container behind it must
// stay valid for the life of the server.
type Source interface {
	Flow() (*flow.Flow, error)
}

type Server struct {
	source Source
	log    logger.Logger
}

func NewServer(source Source, log logger.Logger) *Server {
	if log == nil {
		log = logger.Discard()
	}
	return &Server{source: source, log: log}
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/v1/header", s.handleHeader)
	e.GET("/v1/segments", s.handleSegments)
	e.GET("/v1/images/:index", s.handleImage)
	e.GET("/v1/images/:index/pixels", s.handlePixel)
	e.GET("/v1/texts/:index", s.handleText)
}

// run builds one flow for the request, lets build chain passes onto it and
// ends it. The flow id is echoed in a response header.
func (s *Server) run(c *echo.Context, build func(*flow.Flow) *flow.Flow) (string, error) {
	if s.source == nil {
		return "", fmt.Errorf("no container loaded")
	}
	fl, err := s.source.Flow()
	if err != nil {
		return "", err
	}
	id := fl.ID().String()
	c.Response().Header().Set(headerFlowID, id)
	err = build(fl).End()
	if err != nil {
		s.log.Debug("request flow failed", "flow", id, "path", c.Request().URL.Path, "error", err)
	}
	return id, err
}

func (s *Server) handleHeader(c *echo.Context) error {
	var header nitf.Header
	id, err := s.run(c, func(fl *flow.Flow) *flow.Flow {
		return fl.WithHeader(func(h *nitf.Header) error {
			header = *h
			return nil
		})
	})
	if err != nil {
		return writeFailure(c, err, id)
	}
	return c.JSON(http.StatusOK, header)
}

func (s *Server) handleSegments(c *echo.Context) error {
	kinds, err := kindsParam(c.QueryParam("kind"))
	if err != nil {
		return writeFailure(c, err, "")
	}

	resp := SegmentsResponse{
		Object:   "list",
		Counts:   make(map[string]int, len(kinds)),
		Segments: []SegmentSummary{},
	}
	id, err := s.run(c, func(fl *flow.Flow) *flow.Flow {
		for _, kind := range kinds {
			index := 0
			resp.Counts[kind.String()] = 0
			fl = fl.ForEachSegment(kind, func(seg nitf.CommonSegment) error {
				resp.Segments = append(resp.Segments, summarize(seg, index))
				resp.Counts[kind.String()]++
				index++
				return nil
			})
		}
		return fl
	})
	if err != nil {
		return writeFailure(c, err, id)
	}
	return c.JSON(http.StatusOK, resp)
}

// findImage runs a flow that stops at the image with the given index.
func (s *Server) findImage(c *echo.Context, index int, use func(*nitf.ImageSegment) error) (string, error) {
	found := false
	return s.run(c, func(fl *flow.Flow) *flow.Flow {
		i := 0
		return fl.ForEachImageSegment(func(seg *nitf.ImageSegment) error {
			if i != index {
				i++
				return nil
			}
			found = true
			if err := use(seg); err != nil {
				return err
			}
			return flow.ErrStop
		}).WithDataSource(func(nitf.DataSource) error {
			if !found {
				return newNotFound(fmt.Sprintf("image %d not found", index))
			}
			return nil
		})
	})
}

func (s *Server) handleImage(c *echo.Context) error {
	index, err := intParam("index", c.Param("index"))
	if err != nil {
		return writeFailure(c, err, "")
	}
	var detail ImageDetail
	id, err := s.findImage(c, index, func(seg *nitf.ImageSegment) error {
		detail = ImageDetail{
			SegmentSummary:     summarize(seg, index),
			Category:           seg.Category,
			Rows:               seg.Rows,
			Columns:            seg.Columns,
			Bands:              seg.Bands,
			PixelValueType:     seg.PixelValueType,
			BitsPerPixel:       seg.BitsPerPixel,
			ActualBitsPerPixel: seg.ActualBitsPerPixel,
			Mode:               seg.Mode,
			Compression:        seg.Compression,
			BlocksPerRow:       seg.BlocksPerRow,
			BlocksPerColumn:    seg.BlocksPerColumn,
		}
		if sampler, err := raster.NewSampler(seg); err == nil {
			detail.SampleFormat = sampler.Format().String()
		}
		return nil
	})
	if err != nil {
		return writeFailure(c, err, id)
	}
	return c.JSON(http.StatusOK, detail)
}

func (s *Server) handlePixel(c *echo.Context) error {
	index, err := intParam("index", c.Param("index"))
	if err != nil {
		return writeFailure(c, err, "")
	}
	row, err := intParam("row", c.QueryParam("row"))
	if err != nil {
		return writeFailure(c, err, "")
	}
	col, err := intParam("col", c.QueryParam("col"))
	if err != nil {
		return writeFailure(c, err, "")
	}

	resp := PixelResponse{Image: index, Row: row, Column: col}
	id, err := s.findImage(c, index, func(seg *nitf.ImageSegment) error {
		sampler, err := raster.NewSampler(seg)
		if err != nil {
			return err
		}
		samples, err := sampler.Pixel(seg.Payload.Stream(), row, col)
		if err != nil {
			return err
		}
		resp.Format = sampler.Format().String()
		resp.Samples = samples
		return nil
	})
	if err != nil {
		return writeFailure(c, err, id)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleText(c *echo.Context) error {
	index, err := intParam("index", c.Param("index"))
	if err != nil {
		return writeFailure(c, err, "")
	}
	var (
		text  string
		found bool
	)
	id, err := s.run(c, func(fl *flow.Flow) *flow.Flow {
		i := 0
		return fl.ForEachTextSegment(func(seg *nitf.TextSegment) error {
			if i != index {
				i++
				return nil
			}
			found = true
			t, err := seg.Text()
			if err != nil {
				return fmt.Errorf("%w: text %d: %w", nitf.ErrIOFailure, index, err)
			}
			text = t
			return flow.ErrStop
		})
	})
	if err == nil && !found {
		err = newNotFound(fmt.Sprintf("text %d not found", index))
	}
	if err != nil {
		return writeFailure(c, err, id)
	}
	return c.String(http.StatusOK, text)
}
