package results

import (
	"context"
	"fmt"

	"github.com/stanford-ppl/regression-sheets/config"
	"github.com/stanford-ppl/regression-sheets/workbook"
)

// Lookup returns the destination for a branch or backend identifier. Identifiers are
// matched exactly.
func Lookup(destinations map[string]config.Destination, id string) (config.Destination, error) {
	if d, ok := destinations[id]; ok {
		return d, nil
	}

	return config.Destination{}, fmt.Errorf("%w: no spreadsheet for '%v'", ErrUnknownDestination, id)
}

// Select opens the spreadsheet for a branch or backend identifier. An unrecognised
// identifier fails with ErrUnknownDestination without calling the opener.
func Select(ctx context.Context, destinations map[string]config.Destination, id string, opener workbook.Opener) (workbook.Workbook, error) {
	d, err := Lookup(destinations, id)
	if err != nil {
		return nil, err
	}

	if d.Key != "" {
		return opener.OpenByKey(ctx, d.Key)
	}

	return opener.OpenByName(ctx, d.Name)
}
