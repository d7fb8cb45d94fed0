package main

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/egannguyen/purchase-orders/internal/service"
)

// parseLines reads SKU:QTY arguments. A bare SKU means quantity 1.
func parseLines(args []string) ([]service.LineInput, error) {
	lines := make([]service.LineInput, 0, len(args))
	for _, arg := range args {
		sku, qty, found := strings.Cut(arg, ":")
		line := service.LineInput{SKU: strings.TrimSpace(sku), Quantity: 1}
		if found {
			n, err := strconv.Atoi(strings.TrimSpace(qty))
			if err != nil {
				return nil, errors.Wrapf(err, "invalid quantity in %q", arg)
			}
			line.Quantity = n
		}
		lines = append(lines, line)
	}
	return lines, nil
}
