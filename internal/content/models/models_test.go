package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		parsed, ok := ParseKind(string(k))
		assert.True(t, ok)
		assert.Equal(t, k, parsed)
	}

	_, ok := ParseKind("video")
	assert.False(t, ok)
	_, ok = ParseKind("")
	assert.False(t, ok)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Entrega de alimentos en Quiché", "entrega-de-alimentos-en-quiche"},
		{"  Año nuevo: ¡más programas!  ", "ano-nuevo-mas-programas"},
		{"Boletín No. 42", "boletin-no-42"},
		{"---", ""},
		{"Comunicado", "comunicado"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.title), "title %q", tt.title)
	}
}

func TestCloneDoesNotAliasPublishedAt(t *testing.T) {
	now := time.Now()
	p := &Publication{Status: StatusPublished, PublishedAt: &now}

	clone := p.Clone()
	earlier := now.Add(-time.Hour)
	*clone.PublishedAt = earlier

	assert.Equal(t, now, *p.PublishedAt)
	assert.True(t, p.Published())
}
