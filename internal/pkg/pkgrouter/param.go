package pkgrouter

import (
	"context"

	"github.com/julienschmidt/httprouter"
)

// GetParam returns the named path segment of the matched route, such as
// "filename" for "/uploads/:filename".
func GetParam(ctx context.Context, key string) string {
	return httprouter.ParamsFromContext(ctx).ByName(key)
}
