package planfile

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/ha1tch/plangrid/pkg/calendar"
	"github.com/ha1tch/plangrid/pkg/sheet"
)

// decodeValue converts a scalar decoded by yaml.v3 or encoding/json into
// a cell value.
func decodeValue(raw any) (sheet.Value, error) {
	switch v := raw.(type) {
	case nil:
		return sheet.Empty, nil
	case string:
		return sheet.Text(v), nil
	case bool:
		return sheet.Text(strconv.FormatBool(v)), nil
	case int:
		return sheet.Number(float64(v)), nil
	case int64:
		return sheet.Number(float64(v)), nil
	case uint64:
		return sheet.Number(float64(v)), nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return sheet.Empty, nil
		}
		return sheet.Number(v), nil
	case time.Time:
		return sheet.Text(calendar.FormatISO(v)), nil
	}
	return sheet.Empty, fmt.Errorf("unsupported value of type %T", raw)
}

func encodeValue(v sheet.Value) any {
	switch v.Kind {
	case sheet.KindNumber:
		return v.Number
	case sheet.KindText:
		return v.Str
	}
	return nil
}
