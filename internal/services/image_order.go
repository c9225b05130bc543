package services

import (
	"github.com/carlosgl93/gumucio-propiedades/internal/models"
)

// AssignImageOrder appends freshly uploaded images to an existing gallery,
// assigning each newcomer the next order slot. Upload completion order is
// irrelevant: callers pass uploaded in the user's original file-selection
// order and that order is preserved. The existing slice is not modified.
func AssignImageOrder(existing, uploaded []models.PropertyImage) []models.PropertyImage {
	merged := make([]models.PropertyImage, 0, len(existing)+len(uploaded))
	merged = append(merged, existing...)
	for i, img := range uploaded {
		img.Order = len(existing) + i
		merged = append(merged, img)
	}
	return merged
}

// RenumberImages reassigns order = index over the given sequence, making
// the orders dense and 0-based. The input array is already a total order,
// so ties are impossible and renumbering an already-correct sequence is a
// no-op. Returns a new slice.
func RenumberImages(images []models.PropertyImage) []models.PropertyImage {
	out := make([]models.PropertyImage, len(images))
	for i, img := range images {
		img.Order = i
		out[i] = img
	}
	return out
}

// MoveImage relocates the element at oldIndex to newIndex (the drag-and-drop
// gesture) and renumbers the result densely. Out-of-range indexes return the
// input renumbered but otherwise unchanged.
func MoveImage(images []models.PropertyImage, oldIndex, newIndex int) []models.PropertyImage {
	n := len(images)
	if oldIndex < 0 || oldIndex >= n || newIndex < 0 || newIndex >= n {
		return RenumberImages(images)
	}

	moved := make([]models.PropertyImage, 0, n)
	moved = append(moved, images[:oldIndex]...)
	moved = append(moved, images[oldIndex+1:]...)

	out := make([]models.PropertyImage, 0, n)
	out = append(out, moved[:newIndex]...)
	out = append(out, images[oldIndex])
	out = append(out, moved[newIndex:]...)

	return RenumberImages(out)
}
