package search

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/reactivities/api/internal/domain/entity"
)

// ProfileIndex mirrors user profiles into Elasticsearch for search.
// Indexing is best effort; a nil client disables it entirely.
type ProfileIndex struct {
	ES     *elasticsearch.Client
	Index  string
	Logger *logrus.Logger
}

func NewProfileIndex(es *elasticsearch.Client, index string, logger *logrus.Logger) *ProfileIndex {
	return &ProfileIndex{ES: es, Index: index, Logger: logger}
}

// Hit is one search result projection.
type Hit struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	ImageURL    string `json:"image_url"`
	Bio         string `json:"bio"`
}

// IndexUser upserts the user's profile document.
func (p *ProfileIndex) IndexUser(ctx context.Context, u *entity.User) error {
	if p == nil || p.ES == nil || p.Index == "" {
		return nil
	}
	doc := map[string]any{
		"id":           u.ID,
		"email":        u.Email,
		"display_name": u.DisplayName,
		"bio":          u.Bio,
		"image_url":    u.ImageURL,
		"updated_at":   u.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: p.Index, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, p.ES)
	if err != nil {
		if p.Logger != nil {
			p.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && p.Logger != nil {
		p.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
	return nil
}

// Search performs a multi_match over display name and email.
func (p *ProfileIndex) Search(ctx context.Context, q string, size int) ([]Hit, error) {
	if p == nil || p.ES == nil || p.Index == "" {
		return []Hit{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"display_name^2", "email"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := p.ES.Search(
		p.ES.Search.WithContext(c),
		p.ES.Search.WithIndex(p.Index),
		p.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string `json:"_id"`
				Source Hit    `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]Hit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
