package rdf

import (
	"fmt"
	"math"
)

// DefaultBins is the number of bins of histograms booked without a model.
const DefaultBins = 128

// HistoModel describes the binning of a histogram.
type HistoModel struct {
	Name  string
	Title string
	Bins  int
	Low   float64
	High  float64
}

func (m HistoModel) histogram() (*Histogram, error) {
	return NewHistogram(m.Name, m.Title, m.Bins, m.Low, m.High)
}

// Histogram is a one-dimensional histogram with fixed-width bins over
// [Low, High). Bin 0 is the underflow bin and bin NBins()+1 the overflow bin.
type Histogram struct {
	Name  string
	Title string
	Low   float64
	High  float64

	counts  []float64
	entries int64
	sum     float64
	inRange int64
}

// NewHistogram creates an empty histogram.
func NewHistogram(name, title string, bins int, low, high float64) (*Histogram, error) {
	if bins <= 0 {
		return nil, fmt.Errorf("histogram %q: number of bins must be positive, got %d", name, bins)
	}
	if !(low < high) {
		return nil, fmt.Errorf("histogram %q: invalid range [%g, %g)", name, low, high)
	}
	return &Histogram{Name: name, Title: title, Low: low, High: high, counts: make([]float64, bins+2)}, nil
}

// autoHistogram builds a histogram whose range covers every value.
func autoHistogram(col string, values []float64) *Histogram {
	low, high := 0.0, 1.0
	if len(values) > 0 {
		low, high = values[0], values[0]
		for _, v := range values[1:] {
			low = math.Min(low, v)
			high = math.Max(high, v)
		}
		// Extend the upper edge so that the maximum lands in the last bin.
		width := high - low
		if width == 0 {
			width = 1
		}
		high += width * 1e-6
	}
	h, _ := NewHistogram(col, col, DefaultBins, low, high)
	for _, v := range values {
		h.Fill(v)
	}
	return h
}

// NBins returns the number of regular bins.
func (h *Histogram) NBins() int { return len(h.counts) - 2 }

// BinWidth returns the width of the regular bins.
func (h *Histogram) BinWidth() float64 { return (h.High - h.Low) / float64(h.NBins()) }

// FindBin returns the bin x falls into, including underflow and overflow.
func (h *Histogram) FindBin(x float64) int {
	switch {
	case x < h.Low:
		return 0
	case x >= h.High:
		return h.NBins() + 1
	}
	bin := 1 + int((x-h.Low)/h.BinWidth())
	if bin > h.NBins() {
		bin = h.NBins()
	}
	return bin
}

// Fill adds one entry at x.
func (h *Histogram) Fill(x float64) {
	bin := h.FindBin(x)
	h.counts[bin]++
	h.entries++
	if bin >= 1 && bin <= h.NBins() {
		h.sum += x
		h.inRange++
	}
}

// BinContent returns the number of entries in bin.
func (h *Histogram) BinContent(bin int) float64 {
	if bin < 0 || bin >= len(h.counts) {
		return 0
	}
	return h.counts[bin]
}

// BinLowEdge returns the lower edge of bin.
func (h *Histogram) BinLowEdge(bin int) float64 {
	return h.Low + float64(bin-1)*h.BinWidth()
}

// Entries returns the number of Fill calls, including under- and overflow.
func (h *Histogram) Entries() int64 { return h.entries }

// Integral returns the number of entries in the regular bins.
func (h *Histogram) Integral() float64 {
	var total float64
	for _, c := range h.counts[1 : len(h.counts)-1] {
		total += c
	}
	return total
}

// Mean returns the mean of the entries in the regular bins.
func (h *Histogram) Mean() float64 {
	if h.inRange == 0 {
		return 0
	}
	return h.sum / float64(h.inRange)
}

func (h *Histogram) String() string {
	return fmt.Sprintf("Histogram(%s, %d bins [%g, %g), %d entries)", h.Name, h.NBins(), h.Low, h.High, h.entries)
}
