package source

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"acadplot/internal/config"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/sirupsen/logrus"
)

// TimeColumn selects the record time as x. Times are converted to seconds
// relative to the first record.
const TimeColumn = "_time"

// QueryAPI is the part of the InfluxDB query API the loader uses.
type QueryAPI interface {
	Query(ctx context.Context, query string) (*api.QueryTableResult, error)
}

// InfluxConnection identifies one InfluxDB organization.
type InfluxConnection struct {
	Host  string
	Token string
	Org   string
}

// InfluxLoader runs Flux queries and reads two columns of the result.
// Clients are created on first use and shared per connection.
type InfluxLoader struct {
	// Connect opens a query API. It defaults to an influxdb2 client.
	Connect func(conn InfluxConnection) (QueryAPI, func(), error)

	mu      sync.Mutex
	apis    map[InfluxConnection]QueryAPI
	closers []func()
	logger  *logrus.Logger
}

func NewInfluxLoader(logger *logrus.Logger) *InfluxLoader {
	return &InfluxLoader{
		Connect: connectInflux,
		apis:    make(map[InfluxConnection]QueryAPI),
		logger:  logger,
	}
}

func connectInflux(conn InfluxConnection) (QueryAPI, func(), error) {
	client := influxdb2.NewClient(conn.Host, conn.Token)
	return client.QueryAPI(conn.Org), client.Close, nil
}

// resolveInflux fills connection fields missing from src with the
// INFLUXDB_* environment variables.
func resolveInflux(src config.SourceConfig) (config.SourceConfig, error) {
	fill := func(v *string, env string) {
		if *v == "" {
			*v = os.Getenv(env)
		}
	}
	fill(&src.Host, "INFLUXDB_HOST")
	fill(&src.Token, "INFLUXDB_TOKEN")
	fill(&src.Org, "INFLUXDB_ORG")
	fill(&src.Bucket, "INFLUXDB_BUCKET")

	if src.Host == "" || src.Token == "" || src.Org == "" {
		return src, fmt.Errorf("missing InfluxDB connection settings (host, token, org)")
	}
	if src.Query == "" && (src.Bucket == "" || src.Measurement == "" || src.YColumn == "") {
		return src, fmt.Errorf("influxdb source needs either a query or bucket, measurement and y_column")
	}
	if src.XColumn == "" {
		src.XColumn = TimeColumn
	}
	return src, nil
}

// FluxQuery returns the query run for src: src.Query when set, otherwise
// the pivoted x and y fields of a measurement.
func FluxQuery(src config.SourceConfig) string {
	if src.Query != "" {
		return src.Query
	}
	fields := fmt.Sprintf(`r["_field"] == %q`, src.YColumn)
	if src.XColumn != TimeColumn {
		fields += fmt.Sprintf(` or r["_field"] == %q`, src.XColumn)
	}
	return fmt.Sprintf(`
		from(bucket: %q)
		|> range(start: 0)
		|> filter(fn: (r) => r["_measurement"] == %q)
		|> filter(fn: (r) => %s)
		|> pivot(rowKey:["_time"], columnKey: ["_field"], valueColumn: "_value")
		|> sort(columns: ["_time"])
	`, src.Bucket, src.Measurement, fields)
}

func (l *InfluxLoader) queryAPI(conn InfluxConnection) (QueryAPI, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if q, ok := l.apis[conn]; ok {
		return q, nil
	}
	q, closer, err := l.Connect(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to InfluxDB at %s: %w", conn.Host, err)
	}
	l.apis[conn] = q
	if closer != nil {
		l.closers = append(l.closers, closer)
	}
	return q, nil
}

// Load implements Loader.
func (l *InfluxLoader) Load(ctx context.Context, src config.SourceConfig) ([]float64, []float64, error) {
	src, err := resolveInflux(src)
	if err != nil {
		return nil, nil, err
	}
	q, err := l.queryAPI(InfluxConnection{Host: src.Host, Token: src.Token, Org: src.Org})
	if err != nil {
		return nil, nil, err
	}

	query := FluxQuery(src)
	l.logger.WithFields(logrus.Fields{
		"bucket":      src.Bucket,
		"measurement": src.Measurement,
		"x":           src.XColumn,
		"y":           src.YColumn,
	}).Debug("Querying series data")

	result, err := q.Query(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("query failed: %w", err)
	}
	defer result.Close()

	var (
		xs, ys []float64
		origin time.Time
	)
	for result.Next() {
		record := result.Record()

		var x float64
		if src.XColumn == TimeColumn {
			if origin.IsZero() {
				origin = record.Time()
			}
			x = record.Time().Sub(origin).Seconds()
		} else {
			v, ok := toFloat(record.ValueByKey(src.XColumn))
			if !ok {
				continue
			}
			x = v
		}

		yKey := src.YColumn
		if yKey == "" {
			yKey = "_value"
		}
		y, ok := toFloat(record.ValueByKey(yKey))
		if !ok {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	if result.Err() != nil {
		return nil, nil, fmt.Errorf("query parsing failed: %w", result.Err())
	}

	l.logger.WithField("data_points", len(xs)).Debug("Query completed")
	return xs, ys, nil
}

// Close closes every client opened by the loader.
func (l *InfluxLoader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, c := range l.closers {
		c()
	}
	l.closers = nil
	l.apis = make(map[InfluxConnection]QueryAPI)
}

func toFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int64:
		return float64(t), true
	case uint64:
		return float64(t), true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
