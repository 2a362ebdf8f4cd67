// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

// fontStyle indexes the built-in Go font files.
type fontStyle uint8

const (
	styleRegular fontStyle = iota
	styleBold
	styleItalic
	styleBoldItalic
	styleMono
	styleMonoBold
	styleCount
)

var fontFiles = [styleCount][]byte{
	styleRegular:    goregular.TTF,
	styleBold:       gobold.TTF,
	styleItalic:     goitalic.TTF,
	styleBoldItalic: gobolditalic.TTF,
	styleMono:       gomono.TTF,
	styleMonoBold:   gomonobold.TTF,
}

var (
	fontMu      sync.Mutex
	fontSources [styleCount]*text.FontSource
)

// styleOf picks the built-in face closest to f.
func styleOf(f Font) fontStyle {
	family := strings.ToLower(f.Family)
	if strings.Contains(family, "mono") || strings.Contains(family, "courier") {
		if f.Bold() {
			return styleMonoBold
		}
		return styleMono
	}
	switch {
	case f.Bold() && f.Italic:
		return styleBoldItalic
	case f.Bold():
		return styleBold
	case f.Italic:
		return styleItalic
	}
	return styleRegular
}

// FontData returns the TrueType bytes of the built-in font used for f,
// for backends that parse fonts themselves.
func FontData(f Font) []byte {
	return fontFiles[styleOf(f)]
}

// FontSource returns the parsed built-in font used for f. Sources are
// parsed once and shared by every surface.
func FontSource(f Font) (*text.FontSource, error) {
	st := styleOf(f)

	fontMu.Lock()
	defer fontMu.Unlock()

	if src := fontSources[st]; src != nil {
		return src, nil
	}
	src, err := text.NewFontSource(fontFiles[st])
	if err != nil {
		return nil, fmt.Errorf("surface: load built-in font: %w", err)
	}
	fontSources[st] = src
	return src, nil
}

// faceCache holds faces by font, per surface.
type faceCache map[Font]text.Face

func (c faceCache) face(f Font) (text.Face, error) {
	if f.Size <= 0 {
		f.Size = 16
	}
	if face, ok := c[f]; ok {
		return face, nil
	}
	src, err := FontSource(f)
	if err != nil {
		return nil, err
	}
	face := src.Face(f.Size)
	c[f] = face
	return face, nil
}
