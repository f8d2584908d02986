// Package api implements the client for the sensor HTTP API: the
// bounding-box device listing and the per-device readings query, both
// authenticated with a static x-api-key header and stamped with a
// 5-minute cache-busting token.
package api

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/luki/airmap/internal/device"
	"github.com/luki/airmap/internal/geo"
	"github.com/luki/airmap/internal/readings"
)

const (
	requestTimeout = 10 * time.Second
	bucketMillis   = 5 * 60 * 1000
)

// CacheToken returns the epoch milliseconds rounded down to the current
// 5-minute bucket. Identical requests within a bucket carry the same
// token and stay cacheable by intermediaries; the token changes at most
// once per bucket.
func CacheToken(now time.Time) int64 {
	return now.UnixMilli() / bucketMillis * bucketMillis
}

// deviceListResponse is the wire shape of GET /device.
type deviceListResponse struct {
	Status  string         `json:"status"`
	Results []DeviceResult `json:"results"`
	Error   string         `json:"error"`
}

// DeviceResult is one device record as reported by the API.
type DeviceResult struct {
	Device    string  `json:"device"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"long"`
	Timestamp int64   `json:"timestamp"` // epoch ms of the last observation
}

// airResponse is the wire shape of GET /air.
type airResponse struct {
	Results []ReadingResult `json:"results"`
}

// ReadingResult is one sensor sample as reported by the API.
type ReadingResult struct {
	Timestamp   int64   `json:"timestamp"` // epoch ms
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	PM10        float64 `json:"pm10"`
	PM25        float64 `json:"pm25"`
}

// Client talks to the sensor API.
type Client struct {
	http *resty.Client
	now  func() time.Time
}

// New builds a client for the given base URL and API key.
func New(baseURL, apiKey string) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("x-api-key", apiKey).
		SetTimeout(requestTimeout)
	return &Client{http: c, now: time.Now}
}

// FetchDevices lists the devices inside the bounding box. A transport
// failure, a non-2xx status, or an error-shaped body all come back as an
// error; the caller treats any of them as "no devices".
func (c *Client) FetchDevices(ctx context.Context, box geo.BoundingBox) ([]device.Device, error) {
	var out deviceListResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("ne", formatCorner(box.NE)).
		SetQueryParam("sw", formatCorner(box.SW)).
		SetQueryParam("t", strconv.FormatInt(CacheToken(c.now()), 10)).
		SetResult(&out).
		Get("/device")
	if err != nil {
		return nil, fmt.Errorf("device list: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("device list: %s", resp.Status())
	}
	if out.Status != "ok" {
		msg := out.Error
		if msg == "" {
			msg = "error response"
		}
		return nil, fmt.Errorf("device list: %s", msg)
	}

	devs := make([]device.Device, 0, len(out.Results))
	for _, r := range out.Results {
		devs = append(devs, device.Device{
			ID:       r.Device,
			Lat:      r.Lat,
			Lon:      r.Lon,
			LastSeen: time.UnixMilli(r.Timestamp),
		})
	}
	return devs, nil
}

// FetchReadings queries one window of samples for a device, capped at
// readings.FetchLimit. The end parameter is sent only for closed windows.
func (c *Client) FetchReadings(ctx context.Context, deviceID string, w readings.Window) ([]readings.Sample, error) {
	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("device", deviceID).
		SetQueryParam("start", strconv.FormatInt(w.Start.UnixMilli(), 10)).
		SetQueryParam("count", strconv.Itoa(readings.FetchLimit)).
		SetQueryParam("t", strconv.FormatInt(CacheToken(c.now()), 10))
	if !w.End.IsZero() {
		req.SetQueryParam("end", strconv.FormatInt(w.End.UnixMilli(), 10))
	}

	var out airResponse
	resp, err := req.SetResult(&out).Get("/air")
	if err != nil {
		return nil, fmt.Errorf("readings for %s: %w", deviceID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("readings for %s: %s", deviceID, resp.Status())
	}

	samples := make([]readings.Sample, 0, len(out.Results))
	for _, r := range out.Results {
		samples = append(samples, readings.Sample{
			Time:        time.UnixMilli(r.Timestamp),
			Temperature: r.Temperature,
			Humidity:    r.Humidity,
			PM10:        r.PM10,
			PM25:        r.PM25,
		})
	}
	return samples, nil
}

func formatCorner(p geo.Point) string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lon, 'f', -1, 64)
}
