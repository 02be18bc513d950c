package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"math"
	"os"

	"motionpicture/internal/frames"
	"motionpicture/internal/logging"
)

type orbit struct {
	count      int
	width      int
	height     int
	fps        int
	realFrames bool
	failEvery  int
	logger     *slog.Logger
}

func (o *orbit) validate() error {
	switch {
	case o.count <= 0:
		return fmt.Errorf("frames must be positive, got %d", o.count)
	case o.width <= 0 || o.height <= 0:
		return fmt.Errorf("invalid size %dx%d", o.width, o.height)
	case o.realFrames && o.fps <= 0:
		return fmt.Errorf("fps must be positive, got %d", o.fps)
	case o.failEvery < 0:
		return fmt.Errorf("fail-every must not be negative, got %d", o.failEvery)
	}
	return nil
}

func (o *orbit) Name() string { return "orbit" }

func (o *orbit) Frames(context.Context) ([]frames.ID, error) {
	ids := make([]frames.ID, o.count)
	for i := range ids {
		if o.realFrames {
			ids[i] = frames.Float(float64(i) / float64(o.fps))
		} else {
			ids[i] = frames.Int(int64(i))
		}
	}
	return ids, nil
}

func (o *orbit) Render(ctx context.Context, path string, frame frames.ID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	step := o.step(frame)
	if o.failEvery > 0 && step > 0 && step%o.failEvery == 0 {
		return fmt.Errorf("frame %s refused", frame)
	}

	img := o.draw(float64(step) / float64(o.count))
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create frame: %w", err)
	}
	if err := png.Encode(file, img); err != nil {
		_ = file.Close()
		return fmt.Errorf("encode frame: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close frame: %w", err)
	}
	if o.logger != nil {
		o.logger.Debug("frame rendered", logging.String(logging.FieldFrame, frame.String()), logging.String("path", path))
	}
	return nil
}

// step maps a frame back to its position in the sequence.
func (o *orbit) step(frame frames.ID) int {
	if frame.Kind() == frames.KindFloat {
		return int(math.Round(frame.Float() * float64(o.fps)))
	}
	return int(frame.Int())
}

// draw paints a disc at phase (0..1) of one revolution.
func (o *orbit) draw(phase float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, o.width, o.height))
	bg := color.RGBA{R: 16, G: 24, B: 48, A: 255}
	fg := color.RGBA{R: 240, G: 180, B: 40, A: 255}

	cx, cy := float64(o.width)/2, float64(o.height)/2
	radius := math.Min(cx, cy) * 0.6
	angle := 2 * math.Pi * phase
	px, py := cx+radius*math.Cos(angle), cy+radius*math.Sin(angle)
	disc := math.Max(2, math.Min(cx, cy)*0.15)

	for y := 0; y < o.height; y++ {
		for x := 0; x < o.width; x++ {
			dx, dy := float64(x)+0.5-px, float64(y)+0.5-py
			if dx*dx+dy*dy <= disc*disc {
				img.SetRGBA(x, y, fg)
			} else {
				img.SetRGBA(x, y, bg)
			}
		}
	}
	return img
}
