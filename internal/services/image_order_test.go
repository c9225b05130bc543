package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlosgl93/gumucio-propiedades/internal/models"
)

func gallery(ids ...string) []models.PropertyImage {
	images := make([]models.PropertyImage, len(ids))
	for i, id := range ids {
		images[i] = models.PropertyImage{ID: id, Order: i}
	}
	return images
}

func galleryIDs(images []models.PropertyImage) []string {
	ids := make([]string, len(images))
	for i, img := range images {
		ids[i] = img.ID
	}
	return ids
}

func assertDenseOrders(t *testing.T, images []models.PropertyImage) {
	t.Helper()
	for i, img := range images {
		assert.Equal(t, i, img.Order, "image %s should have order %d", img.ID, i)
	}
}

func TestAssignImageOrder_EmptyGallery(t *testing.T) {
	uploaded := []models.PropertyImage{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	merged := AssignImageOrder(nil, uploaded)

	require.Len(t, merged, 3)
	assert.Equal(t, []string{"a", "b", "c"}, galleryIDs(merged))
	assertDenseOrders(t, merged)
}

func TestAssignImageOrder_AppendsAfterExisting(t *testing.T) {
	existing := gallery("a", "b")
	uploaded := []models.PropertyImage{{ID: "c"}, {ID: "d"}}

	merged := AssignImageOrder(existing, uploaded)

	require.Len(t, merged, 4)
	assert.Equal(t, []string{"a", "b", "c", "d"}, galleryIDs(merged))
	assertDenseOrders(t, merged)
	// Input slices must be untouched.
	assert.Equal(t, 0, uploaded[0].Order)
	assert.Equal(t, 0, existing[0].Order)
}

func TestRenumberImages(t *testing.T) {
	images := []models.PropertyImage{
		{ID: "c", Order: 7},
		{ID: "a", Order: 0},
		{ID: "b", Order: 3},
	}

	out := RenumberImages(images)

	assert.Equal(t, []string{"c", "a", "b"}, galleryIDs(out))
	assertDenseOrders(t, out)
	// Original is untouched.
	assert.Equal(t, 7, images[0].Order)
}

func TestRenumberImages_AlreadyDenseIsNoOp(t *testing.T) {
	images := gallery("a", "b", "c")
	out := RenumberImages(images)
	assert.Equal(t, images, out)
}

func TestMoveImage_DragLastToFront(t *testing.T) {
	images := gallery("a", "b", "c")

	out := MoveImage(images, 2, 0)

	assert.Equal(t, []string{"c", "a", "b"}, galleryIDs(out))
	assertDenseOrders(t, out)
}

func TestMoveImage_DragFirstToEnd(t *testing.T) {
	images := gallery("a", "b", "c")

	out := MoveImage(images, 0, 2)

	assert.Equal(t, []string{"b", "c", "a"}, galleryIDs(out))
	assertDenseOrders(t, out)
}

func TestMoveImage_SamePosition(t *testing.T) {
	images := gallery("a", "b", "c")
	out := MoveImage(images, 1, 1)
	assert.Equal(t, []string{"a", "b", "c"}, galleryIDs(out))
	assertDenseOrders(t, out)
}

func TestMoveImage_OutOfRange(t *testing.T) {
	images := gallery("a", "b", "c")

	out := MoveImage(images, 5, 0)
	assert.Equal(t, []string{"a", "b", "c"}, galleryIDs(out))

	out = MoveImage(images, 0, -1)
	assert.Equal(t, []string{"a", "b", "c"}, galleryIDs(out))
}
