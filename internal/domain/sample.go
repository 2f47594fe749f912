package domain

import (
	"slices"
	"strings"
	"time"
)

// Sample es lo minimo que el motor necesita de cualquier registro: id estable
// y momento de creacion.
type Sample interface {
	SampleID() string
	RecordedAt() time.Time
}

// CompareSamples ordena por fecha de creacion y desempata por id, sin depender
// de coerciones implicitas de timestamps.
func CompareSamples[S Sample](a, b S) int {
	if c := a.RecordedAt().Compare(b.RecordedAt()); c != 0 {
		return c
	}
	return strings.Compare(a.SampleID(), b.SampleID())
}

// SortSamples ordena in-place en orden cronologico ascendente.
func SortSamples[S Sample](samples []S) {
	slices.SortStableFunc(samples, CompareSamples[S])
}

// SampleIDs extrae los ids en el orden recibido.
func SampleIDs[S Sample](samples []S) []string {
	ids := make([]string, 0, len(samples))
	for _, s := range samples {
		ids = append(ids, s.SampleID())
	}
	return ids
}
