package evaluate

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/tunegridgo/internal/metric"
)

// defaultMetricNames is the metric set used when options carry none.
var defaultMetricNames = []string{"rmse", "rsq"}

// MetricsFromOptions resolves the "metrics" option (a list of metric names)
// against the metric registry, falling back to the regression defaults.
func MetricsFromOptions(options map[string]cty.Value) ([]metric.Metric, error) {
	names := defaultMetricNames
	if v, ok := options["metrics"]; ok {
		names = nil
		if !v.CanIterateElements() {
			return nil, fmt.Errorf("option \"metrics\" must be a list of metric names")
		}
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			if elem.Type() != cty.String {
				return nil, fmt.Errorf("option \"metrics\" must contain strings, got %s", elem.Type().FriendlyName())
			}
			names = append(names, elem.AsString())
		}
	}

	metrics := make([]metric.Metric, 0, len(names))
	for _, name := range names {
		m, err := metric.Lookup(name)
		if err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}
	return metrics, nil
}

// IntOption reads a numeric option as an int, or the default when absent.
func IntOption(options map[string]cty.Value, key string, def int) (int, error) {
	v, ok := options[key]
	if !ok {
		return def, nil
	}
	if v.Type() != cty.Number {
		return 0, fmt.Errorf("option %q must be a number, got %s", key, v.Type().FriendlyName())
	}
	f, _ := v.AsBigFloat().Float64()
	return int(f), nil
}
