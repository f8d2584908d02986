// Package mockapi serves a synthetic fleet behind the same two endpoints
// as the production feed, so the dashboard can be developed and demoed
// without credentials. Readings are deterministic per device and
// timestamp, which keeps backward paging stable across requests.
package mockapi

import (
	"encoding/json"
	"hash/fnv"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/luki/airmap/internal/geo"
	"github.com/luki/airmap/internal/readings"
)

const (
	fleetSize      = 30
	reportInterval = 5 * time.Minute
)

type fleetDevice struct {
	ID  string
	Pos geo.Point
}

// Server implements the /device and /air endpoints over a synthetic fleet
// scattered around a center point.
type Server struct {
	apiKey string
	fleet  []fleetDevice
	now    func() time.Time
}

// New seeds a fleet around the given center. Device IDs are stable for
// the server's lifetime.
func New(apiKey string, center geo.Point) *Server {
	s := &Server{apiKey: apiKey, now: time.Now}
	seed := uuid.New()
	for i := 0; i < fleetSize; i++ {
		id := "AM-" + strings.ToUpper(uuid.NewSHA1(seed, []byte(strconv.Itoa(i))).String()[:8])
		s.fleet = append(s.fleet, fleetDevice{
			ID: id,
			Pos: geo.Point{
				Lat: center.Lat + spread(id+"lat")*0.15,
				Lon: center.Lon + spread(id+"lon")*0.25,
			},
		})
	}
	return s
}

// Handler returns the routed handler with CORS enabled, since the other
// consumer of this feed is a browser client.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/device", s.handleDevices).Methods(http.MethodGet)
	r.HandleFunc("/air", s.handleAir).Methods(http.MethodGet)
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	return cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet},
		AllowedHeaders: []string{"x-api-key"},
	}).Handler(r)
}

type deviceRecord struct {
	Device    string  `json:"device"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"long"`
	Timestamp int64   `json:"timestamp"`
}

type readingRecord struct {
	Timestamp   int64   `json:"timestamp"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	PM10        float64 `json:"pm10"`
	PM25        float64 `json:"pm25"`
}

func (s *Server) handleDevices(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		respondJSON(w, http.StatusForbidden, map[string]string{
			"status": "error",
			"error":  "invalid api key",
		})
		return
	}

	ne, errNE := parseCorner(r.URL.Query().Get("ne"))
	sw, errSW := parseCorner(r.URL.Query().Get("sw"))
	if errNE != nil || errSW != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"status": "error",
			"error":  "ne and sw must be lat,lng pairs",
		})
		return
	}
	box := geo.BoundingBox{NE: ne, SW: sw}

	// Each device "reports" on its own cadence; the listed timestamp is
	// its most recent slot.
	now := s.now()
	results := make([]deviceRecord, 0)
	for _, d := range s.fleet {
		if !box.Contains(d.Pos) {
			continue
		}
		last := now.Truncate(reportInterval).Add(-jitter(d.ID, now))
		results = append(results, deviceRecord{
			Device:    d.ID,
			Lat:       d.Pos.Lat,
			Lon:       d.Pos.Lon,
			Timestamp: last.UnixMilli(),
		})
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"results": results,
	})
}

func (s *Server) handleAir(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		respondJSON(w, http.StatusForbidden, map[string]string{
			"status": "error",
			"error":  "invalid api key",
		})
		return
	}

	q := r.URL.Query()
	deviceID := q.Get("device")
	if deviceID == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"status": "error",
			"error":  "device is required",
		})
		return
	}

	startMs, err := strconv.ParseInt(q.Get("start"), 10, 64)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"status": "error",
			"error":  "start must be epoch milliseconds",
		})
		return
	}
	start := time.UnixMilli(startMs)

	end := s.now()
	if endStr := q.Get("end"); endStr != "" {
		endMs, err := strconv.ParseInt(endStr, 10, 64)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{
				"status": "error",
				"error":  "end must be epoch milliseconds",
			})
			return
		}
		end = time.UnixMilli(endMs)
	}

	count := readings.FetchLimit
	if countStr := q.Get("count"); countStr != "" {
		if n, err := strconv.Atoi(countStr); err == nil && n > 0 && n < count {
			count = n
		}
	}

	results := make([]readingRecord, 0)
	for t := start.Truncate(reportInterval); t.Before(end) && len(results) < count; t = t.Add(reportInterval) {
		results = append(results, synthReading(deviceID, t))
	}

	respondJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (s *Server) authorized(r *http.Request) bool {
	return s.apiKey != "" && r.Header.Get("x-api-key") == s.apiKey
}

// synthReading derives a plausible reading from the device ID and slot
// time alone: a daily temperature swing, inverse humidity, and slowly
// drifting particulates with per-device character.
func synthReading(deviceID string, t time.Time) readingRecord {
	dayFrac := float64(t.Hour()*3600+t.Minute()*60) / 86400
	diurnal := math.Sin((dayFrac - 0.25) * 2 * math.Pi)

	base := spread(deviceID)
	n1 := spread(deviceID + t.Truncate(time.Hour).String())
	n2 := spread(deviceID + t.String())

	temp := 14 + 8*diurnal + 4*base + 1.5*n2
	hum := 55 - 15*diurnal + 10*n1
	pm10 := math.Max(2, 45+30*base+25*n1+10*n2)
	pm25 := math.Max(1, pm10*(0.45+0.15*n2))

	return readingRecord{
		Timestamp:   t.UnixMilli(),
		Temperature: round1(temp),
		Humidity:    round1(math.Min(100, math.Max(5, hum))),
		PM10:        round1(pm10),
		PM25:        round1(pm25),
	}
}

// spread hashes a key to a stable value in [-1, 1).
func spread(key string) float64 {
	h := fnv.New64a()
	h.Write([]byte(key))
	return float64(int64(h.Sum64())) / math.MaxInt64
}

func jitter(id string, now time.Time) time.Duration {
	frac := (spread(id+now.Truncate(time.Hour).String()) + 1) / 2
	return time.Duration(frac * float64(reportInterval))
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func parseCorner(s string) (geo.Point, error) {
	lat, lon, ok := strings.Cut(s, ",")
	if !ok {
		return geo.Point{}, strconv.ErrSyntax
	}
	latF, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return geo.Point{}, err
	}
	lonF, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err != nil {
		return geo.Point{}, err
	}
	return geo.Point{Lat: latF, Lon: lonF}, nil
}

func respondJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode response: %v", err)
	}
}
