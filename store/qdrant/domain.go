package qdrant

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	pb "github.com/qdrant/go-client/qdrant"
	"github.com/w-h-a/moviesearch/store"
)

const (
	fieldTitle     = "title"
	fieldPlot      = "plot"
	fieldYear      = "year"
	fieldModel     = "embedding_model"
	fieldTimestamp = "embedding_timestamp"

	defaultPort = 6334
)

type endpoint struct {
	host       string
	port       int
	collection string
	apiKey     string
	tls        bool
}

// parseLocation reads qdrant://host:port/collection?api_key=...&tls=true.
func parseLocation(loc string) (endpoint, error) {
	u, err := url.Parse(loc)
	if err != nil {
		return endpoint{}, err
	}

	if len(u.Hostname()) == 0 {
		return endpoint{}, fmt.Errorf("missing qdrant host in %q", loc)
	}

	ep := endpoint{
		host:       u.Hostname(),
		port:       defaultPort,
		collection: strings.Trim(u.Path, "/"),
		apiKey:     u.Query().Get("api_key"),
		tls:        u.Query().Get("tls") == "true",
	}

	if p := u.Port(); len(p) > 0 {
		port, err := strconv.Atoi(p)
		if err != nil {
			return endpoint{}, fmt.Errorf("invalid qdrant port %q: %w", p, err)
		}
		ep.port = port
	}

	return ep, nil
}

func pointID(id string) *pb.PointId {
	if n, err := strconv.ParseUint(id, 10, 64); err == nil {
		return pb.NewIDNum(n)
	}
	return pb.NewIDUUID(id)
}

func idString(id *pb.PointId) string {
	if id == nil {
		return ""
	}
	if uuid := id.GetUuid(); len(uuid) > 0 {
		return uuid
	}
	return strconv.FormatUint(id.GetNum(), 10)
}

func payloadMovie(id *pb.PointId, payload map[string]*pb.Value) store.Movie {
	m := store.Movie{
		Id:             idString(id),
		Title:          payload[fieldTitle].GetStringValue(),
		Plot:           payload[fieldPlot].GetStringValue(),
		Year:           int(payload[fieldYear].GetIntegerValue()),
		EmbeddingModel: payload[fieldModel].GetStringValue(),
	}

	if ts := payload[fieldTimestamp].GetIntegerValue(); ts > 0 {
		m.EmbeddingTimestamp = time.Unix(ts, 0).UTC()
	}

	return m
}

func unembeddedCondition() *pb.Condition {
	return pb.NewIsEmpty(fieldModel)
}

// checkVectorParams requires the collection to define the named vector with
// the expected size.
func checkVectorParams(cfg *pb.VectorsConfig, field string, size int) error {
	params, ok := cfg.GetParamsMap().GetMap()[field]
	if !ok {
		return fmt.Errorf("qdrant collection has no named vector %q", field)
	}

	return store.CheckVectorSize(int(params.GetSize()), size)
}
