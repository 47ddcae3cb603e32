package kinesis

import (
	"context"

	"github.com/example/ec-datalayer/internal/datalayer"
	"github.com/example/ec-datalayer/internal/domain/ecommerce"
)

type recordingPusher struct {
	pushes []ecommerce.DataLayerPush
}

func (r *recordingPusher) Push(_ context.Context, push ecommerce.DataLayerPush) (datalayer.Entry, error) {
	if err := push.Validate(); err != nil {
		return datalayer.Entry{}, err
	}
	r.pushes = append(r.pushes, push)
	kind, _ := push.Kind()
	return datalayer.Entry{ID: "entry-1", Kind: kind, Push: push}, nil
}
