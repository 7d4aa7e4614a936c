package word_test

import "github.com/goliatone/go-thesisforge/pkg/catalog"

func catalogFont(name string, size float64) catalog.Font {
	return catalog.Font{Name: name, Size: size}
}
