package capture

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	var o Options
	o.Normalize()
	assert.Equal(t, DefaultSelector, o.Selector)
	assert.Equal(t, DefaultWidth, o.Width)
	assert.Equal(t, DefaultHeight, o.Height)
	assert.Equal(t, DefaultTimeout, o.Timeout)

	o = Options{Selector: "#x", Width: 10, Height: 20, Timeout: time.Second}
	o.Normalize()
	assert.Equal(t, Options{Selector: "#x", Width: 10, Height: 20, Timeout: time.Second}, o)
}

func TestRequiredOptions(t *testing.T) {
	_, err := CaptureWidgetPNG(context.Background(), Options{})
	assert.ErrorIs(t, err, ErrMissingURL)

	err = WriteWidgetPNG(context.Background(), Options{URL: "http://127.0.0.1/widgets/x"})
	assert.ErrorIs(t, err, ErrMissingOutput)
}
