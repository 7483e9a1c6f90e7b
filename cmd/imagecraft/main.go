/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"strings"

	"imagecraft/internal/config"
	"imagecraft/internal/crash"
	"imagecraft/internal/crop"
	"imagecraft/internal/export"
	"imagecraft/internal/filter"
	"imagecraft/internal/geom"
	applog "imagecraft/internal/log"
	"imagecraft/internal/scene"
	"imagecraft/internal/straighten"
	"imagecraft/internal/undo"
	"imagecraft/internal/version"
)

// errUsage marks bad invocations; main exits with 2 for them.
var errUsage = errors.New("usage")

func usage(w io.Writer) {
	fmt.Fprintln(w, "ImageCraft: image transform and filter tool")
	fmt.Fprintf(w, "Version: %s\n", version.String())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  imagecraft version|-v|--version                         Show version")
	fmt.Fprintln(w, "  imagecraft filters [-table f.yaml]                      List filter names")
	fmt.Fprintln(w, "  imagecraft filter -name n [-table f.yaml] <in> <out>    Apply a named filter")
	fmt.Fprintln(w, "  imagecraft crop -x -y -w -h | -ratio r [-size f] <in> <out>")
	fmt.Fprintln(w, "  imagecraft straighten -angle a [-base b] <in> <out>     Rotate and clip to the largest upright rect")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output flags: -preset web|print|full, -quality 1..100, -max <px>. The format follows the output extension.")
}

func main() {
	cfg, cfgErr := config.Load()
	applog.Init(cfg.LogOptions())
	defer func() { _ = applog.Close() }()
	l := applog.WithComponent(applog.CompCLI)
	if cfgErr != nil {
		l.Warn("config ignored", slog.Any("err", cfgErr))
	}

	cc := &crash.Context{Command: strings.Join(os.Args[1:], " ")}
	defer crash.Recover(cc)

	code := run(cfg, os.Args[1:], os.Stdout, cc)
	if code != 0 {
		_ = applog.Close()
		os.Exit(code)
	}
}

// run executes one command and returns the process exit code.
func run(cfg config.AppConfig, args []string, stdout io.Writer, cc *crash.Context) int {
	l := applog.WithComponent(applog.CompCLI)
	if len(args) == 0 {
		usage(stdout)
		return 0
	}
	l.Debug("start", slog.String("cmd", args[0]), slog.Int("args", len(args)))

	var err error
	switch args[0] {
	case "version", "--version", "-v":
		fmt.Fprintln(stdout, version.String())
		return 0
	case "help", "-h", "--help":
		usage(stdout)
		return 0
	case "filters":
		err = cmdFilters(cfg, args[1:], stdout)
	case "filter":
		err = cmdFilter(cfg, args[1:], cc)
	case "crop":
		err = cmdCrop(cfg, args[1:], cc)
	case "straighten":
		err = cmdStraighten(cfg, args[1:], cc)
	default:
		err = fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
	if err == nil {
		return 0
	}
	l.Error("command failed", slog.String("cmd", args[0]), slog.Any("err", err))
	fmt.Fprintln(os.Stderr, "Error:", err)
	if errors.Is(err, errUsage) {
		usage(os.Stderr)
		return 2
	}
	return 1
}

// outputFlags registers the export flags shared by all image commands.
type outputFlags struct {
	preset  string
	quality int
	maxSide int
}

func (o *outputFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&o.preset, "preset", "", "export preset: web, print or full")
	fs.IntVar(&o.quality, "quality", 0, "JPEG quality 1..100, overrides preset and config")
	fs.IntVar(&o.maxSide, "max", 0, "scale down to fit a square of this side in pixels")
}

func (o *outputFlags) options(cfg config.AppConfig) (export.Options, error) {
	opt := export.Options{JPEGQuality: cfg.Export.JPEGQuality, PDFDPI: cfg.Export.PDFDPI}
	if o.preset != "" {
		p, err := export.PresetOptions(o.preset)
		if err != nil {
			return opt, fmt.Errorf("%w: %v", errUsage, err)
		}
		opt = p
	}
	if o.quality > 0 {
		opt.JPEGQuality = o.quality
	}
	if o.maxSide > 0 {
		opt.MaxSide = o.maxSide
	}
	return opt, nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parse parses flags and returns the <in> <out> positional pair.
func parse(fs *flag.FlagSet, args []string, cc *crash.Context) (string, string, error) {
	if err := fs.Parse(args); err != nil {
		return "", "", fmt.Errorf("%w: %s: %v", errUsage, fs.Name(), err)
	}
	if fs.NArg() != 2 {
		return "", "", fmt.Errorf("%w: %s requires <in> and <out>", errUsage, fs.Name())
	}
	in, out := fs.Arg(0), fs.Arg(1)
	if cc != nil {
		cc.Input, cc.Output = in, out
	}
	return in, out, nil
}

func catalog(cfg config.AppConfig, table string) (*filter.Catalog, error) {
	if table == "" {
		table = cfg.Filters.Table
	}
	if table == "" {
		return filter.NewCatalog(), nil
	}
	specs, err := filter.LoadFile(table)
	if err != nil {
		return nil, err
	}
	return filter.NewCatalog(specs), nil
}

func cmdFilters(cfg config.AppConfig, args []string, stdout io.Writer) error {
	fs := newFlagSet("filters")
	table := fs.String("table", "", "YAML filter table merged over the presets")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: filters: %v", errUsage, err)
	}
	cat, err := catalog(cfg, *table)
	if err != nil {
		return err
	}
	for _, n := range cat.Names() {
		fmt.Fprintln(stdout, n)
	}
	return nil
}

func cmdFilter(cfg config.AppConfig, args []string, cc *crash.Context) error {
	fs := newFlagSet("filter")
	name := fs.String("name", "", "filter name")
	table := fs.String("table", "", "YAML filter table merged over the presets")
	var of outputFlags
	of.register(fs)
	in, out, err := parse(fs, args, cc)
	if err != nil {
		return err
	}
	if *name == "" {
		return fmt.Errorf("%w: filter requires -name", errUsage)
	}
	opt, err := of.options(cfg)
	if err != nil {
		return err
	}
	cat, err := catalog(cfg, *table)
	if err != nil {
		return err
	}
	spec, err := cat.Lookup(*name)
	if err != nil {
		return err
	}
	img, err := export.Load(in)
	if err != nil {
		return err
	}
	res, err := export.Filter(img, spec)
	if err != nil {
		return err
	}
	return export.Save(res, out, opt)
}

func cmdCrop(cfg config.AppConfig, args []string, cc *crash.Context) error {
	fs := newFlagSet("crop")
	x := fs.Float64("x", 0, "left edge in pixels")
	y := fs.Float64("y", 0, "top edge in pixels")
	w := fs.Float64("w", 0, "width in pixels")
	h := fs.Float64("h", 0, "height in pixels")
	ratio := fs.Float64("ratio", 0, "centred preset zone with this width/height ratio")
	size := fs.Float64("size", cfg.Crop.PresetSize, "canvas fraction covered by a preset zone")
	var of outputFlags
	of.register(fs)
	in, out, err := parse(fs, args, cc)
	if err != nil {
		return err
	}
	if *ratio <= 0 && (*w <= 0 || *h <= 0) {
		return fmt.Errorf("%w: crop requires -w and -h, or -ratio", errUsage)
	}
	opt, err := of.options(cfg)
	if err != nil {
		return err
	}
	img, err := export.Load(in)
	if err != nil {
		return err
	}

	r, err := cropRect(cfg, img.Bounds(), geom.Rect{Left: *x, Top: *y, Width: *w, Height: *h}, *ratio, *size)
	if err != nil {
		return err
	}
	res, err := export.Crop(img, r)
	if err != nil {
		return err
	}
	return export.Save(res, out, opt)
}

// cropRect resolves the crop zone. A ratio seeds a preset zone through a crop
// controller on an in-memory canvas; an explicit rect is clamped to the image.
func cropRect(cfg config.AppConfig, b image.Rectangle, want geom.Rect, ratio, size float64) (geom.Rect, error) {
	W, H := float64(b.Dx()), float64(b.Dy())
	if ratio <= 0 {
		r := crop.ClampDrag(geom.Pt{X: want.Left, Y: want.Top}, geom.Pt{X: want.Right(), Y: want.Bottom()}, W, H)
		return r, nil
	}
	canvas := scene.NewMemory(W, H)
	c := crop.NewController(canvas, crop.Options{MoveThreshold: cfg.Crop.MoveThreshold, PresetSize: size})
	c.Start()
	defer c.End()
	c.SetAspectRatio(ratio, true, size)
	r, ok := c.Rect()
	if !ok {
		return geom.Rect{}, export.ErrNoCropZone
	}
	return r, nil
}

func cmdStraighten(cfg config.AppConfig, args []string, cc *crash.Context) error {
	fs := newFlagSet("straighten")
	angle := fs.Float64("angle", 0, "straighten angle in degrees")
	base := fs.Float64("base", 0, "base rotation in degrees, usually a multiple of 90")
	var of outputFlags
	of.register(fs)
	in, out, err := parse(fs, args, cc)
	if err != nil {
		return err
	}
	opt, err := of.options(cfg)
	if err != nil {
		return err
	}
	img, err := export.Load(in)
	if err != nil {
		return err
	}

	b := img.Bounds()
	canvas := scene.NewMemory(float64(b.Dx()), float64(b.Dy()))
	s := straighten.New(canvas, straighten.Options{
		HCells:  cfg.Straighten.GridCells,
		VCells:  cfg.Straighten.GridCells,
		Circles: cfg.Straighten.Circles,
	})
	s.Start()
	defer s.End()
	hist := undo.NewHistory(s, undo.Config{MaxDepth: 1})
	got, res := hist.Straighten(*angle, *base)
	applog.WithOperation(applog.WithComponent(applog.CompCLI), "straighten").Info("straightened",
		slog.Float64("angle", got), slog.Any("clip", res.ClipRect))

	rotated, err := export.Straighten(img, res)
	if err != nil {
		return err
	}
	return export.Save(rotated, out, opt)
}
