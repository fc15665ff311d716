// Package layout positions gallery items in masonry arrangements from
// their source dimensions, so the UI only has to apply precomputed
// transforms.
package layout

// Transform is the computed placement of one item within the container.
type Transform struct {
	SrcWidth  int `json:"-"`
	SrcHeight int `json:"-"`
	Width     int `json:"width"`
	Height    int `json:"height"`
	Left      int `json:"left"`
	Top       int `json:"top"`
}

// Layout computes item placements for one container.
type Layout struct {
	Items     []Transform
	ThumbSize int
}

// maxAspectRatio clamps extreme aspect ratios in vertical layouts so one
// panorama can't dominate a column.
const maxAspectRatio = 3.0

// New returns a layout for n items at the given base thumbnail size.
func New(n, thumbSize int) *Layout {
	return &Layout{
		Items:     make([]Transform, n),
		ThumbSize: thumbSize,
	}
}

// SetItemSource records the source dimensions of item i.
func (l *Layout) SetItemSource(i, width, height int) {
	l.Items[i].SrcWidth = width
	l.Items[i].SrcHeight = height
}

// Compute lays items out as justified rows: items flow left to right at the
// base row height, and each full row is scaled so it spans the container
// width exactly. Returns the total content height.
func (l *Layout) Compute(containerWidth, padding int) int {
	baseRowHeight := l.ThumbSize

	topOffset := 0
	curRowWidth := 0
	firstRowItem := 0

	for i := range l.Items {
		item := &l.Items[i]
		if item.SrcHeight == 0 {
			continue
		}
		relWidth := float64(baseRowHeight) / float64(item.SrcHeight) * float64(item.SrcWidth)
		item.Width = int(relWidth)
		item.Top = topOffset
		item.Height = baseRowHeight
		item.Left = curRowWidth

		newRowWidth := curRowWidth + int(relWidth) + padding
		if newRowWidth > containerWidth {
			// The row is now definitive: scale every item in it so the
			// row spans the container exactly.
			correction := float64(containerWidth) / float64(newRowWidth)

			for j := firstRowItem; j <= i; j++ {
				it := &l.Items[j]
				it.Left = int(float64(it.Left) * correction)
				it.Width = int(float64(it.Width) * correction)
				it.Height = int(float64(it.Height) * correction)
			}

			curRowWidth = 0
			firstRowItem = i + 1
			topOffset += padding + int(float64(baseRowHeight)*correction)
		} else {
			curRowWidth = newRowWidth
		}
	}

	// A trailing partial row keeps the base height and adds it to the total.
	if curRowWidth != 0 && len(l.Items) > 0 {
		return topOffset + l.Items[len(l.Items)-1].Height
	}
	return topOffset
}

// ComputeVertical lays items out in equal-width columns, always placing the
// next item in the shortest column. Extreme aspect ratios are clamped so
// displayed heights stay reasonable. Returns the height of the tallest
// column.
func (l *Layout) ComputeVertical(containerWidth, padding int) int {
	nColumns := int(0.5 + float64(containerWidth)/float64(l.ThumbSize))
	if nColumns == 0 {
		return 0
	}
	colWidth := int(0.5 + float64(containerWidth)/float64(nColumns))

	colHeights := make([]int, nColumns)

	for i := range l.Items {
		item := &l.Items[i]
		if item.SrcWidth == 0 || item.SrcHeight == 0 {
			continue
		}

		h := float64(item.SrcHeight)
		aspect := float64(item.SrcWidth) / h
		if aspect > maxAspectRatio {
			h = maxAspectRatio * h
		} else if aspect < maxAspectRatio/5 {
			h /= maxAspectRatio
		}

		item.Width = colWidth - padding
		item.Height = int(float64(item.Width)/float64(item.SrcWidth)*h + 0.5)

		shortest := minIndex(colHeights)
		item.Top = colHeights[shortest]
		item.Left = shortest * colWidth

		colHeights[shortest] += item.Height + padding
	}

	tallest := 0
	for _, h := range colHeights {
		if h > tallest {
			tallest = h
		}
	}
	return tallest
}

func minIndex(values []int) int {
	idx := 0
	for i, v := range values {
		if v < values[idx] {
			idx = i
		}
	}
	return idx
}
