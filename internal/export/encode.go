/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/jung-kurt/gofpdf"

	applog "imagecraft/internal/log"
)

// Options controls encoding.
//   - JPEGQuality: 1..100, zero picks 90
//   - PDFDPI: pixels per inch used to size the PDF page, zero picks 96
//   - MaxSide: when > 0 the image is scaled down to fit a square of that side
type Options struct {
	JPEGQuality int
	PDFDPI      float64
	MaxSide     int
}

func (o Options) withDefaults() Options {
	if o.JPEGQuality < 1 || o.JPEGQuality > 100 {
		o.JPEGQuality = 90
	}
	if o.PDFDPI <= 0 {
		o.PDFDPI = 96
	}
	return o
}

// Load decodes an image file, honouring EXIF orientation.
func Load(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	return img, nil
}

// Save writes img to outPath; the format follows the extension (.png, .jpg,
// .jpeg, .gif, .tif, .bmp or .pdf).
func Save(img image.Image, outPath string, opt Options) error {
	opt = opt.withDefaults()
	if opt.MaxSide > 0 {
		b := img.Bounds()
		if b.Dx() > opt.MaxSide || b.Dy() > opt.MaxSide {
			img = imaging.Fit(img, opt.MaxSide, opt.MaxSide, imaging.Lanczos)
		}
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	l := applog.WithOperation(applog.WithComponent(applog.CompExport), "save")

	var err error
	if strings.EqualFold(filepath.Ext(outPath), ".pdf") {
		err = writePDF(img, outPath, opt)
	} else {
		err = imaging.Save(img, outPath, imaging.JPEGQuality(opt.JPEGQuality))
	}
	if err != nil {
		l.Error("export failed", slog.String("path", outPath), slog.Any("err", err))
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	b := img.Bounds()
	l.Info("image written", slog.String("path", outPath), slog.Int("w", b.Dx()), slog.Int("h", b.Dy()))
	return nil
}

// writePDF places img on a single page sized from its pixel dimensions at
// opt.PDFDPI. Units are points.
func writePDF(img image.Image, outPath string, opt Options) error {
	b := img.Bounds()
	wPt := float64(b.Dx()) * 72 / opt.PDFDPI
	hPt := float64(b.Dy()) * 72 / opt.PDFDPI

	var png bytes.Buffer
	if err := imaging.Encode(&png, img, imaging.PNG); err != nil {
		return fmt.Errorf("encode page image: %w", err)
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: wPt, Ht: hPt},
	})
	pdf.SetCreator("imagecraft", false)
	pdf.SetTitle(strings.TrimSuffix(filepath.Base(outPath), filepath.Ext(outPath)), false)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPageFormat("", gofpdf.SizeType{Wd: wPt, Ht: hPt})

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("page", opts, &png)
	pdf.ImageOptions("page", 0, 0, wPt, hPt, false, opts, 0, "")
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
