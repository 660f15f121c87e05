package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/multilingual_crud/internal/models"
)

// UserDoc is the search projection of a user, never the password hash.
type UserDoc struct {
	ID       uint     `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

// UserIndex mirrors the user table into elasticsearch. All methods are
// nil-safe so the app and tests run without a cluster.
type UserIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func (x *UserIndex) enabled() bool {
	return x != nil && x.ES != nil
}

func (x *UserIndex) IndexUser(ctx context.Context, u *models.User) error {
	if !x.enabled() {
		return nil
	}

	doc := UserDoc{ID: u.ID, Username: u.Username, Email: u.Email, Roles: u.RoleNames()}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("es: marshal user doc: %w", err)
	}

	res, err := x.ES.Index(
		x.Index,
		bytes.NewReader(data),
		x.ES.Index.WithContext(ctx),
		x.ES.Index.WithDocumentID(strconv.FormatUint(uint64(u.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("es: index user: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("es: index user: %s", res.Status())
	}
	return nil
}

func (x *UserIndex) DeleteUser(ctx context.Context, id uint) error {
	if !x.enabled() {
		return nil
	}

	res, err := x.ES.Delete(
		x.Index,
		strconv.FormatUint(uint64(id), 10),
		x.ES.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("es: delete user: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("es: delete user: %s", res.Status())
	}
	return nil
}

func (x *UserIndex) Search(ctx context.Context, query string, from, size int) (int64, []UserDoc, error) {
	if !x.enabled() {
		return 0, nil, fmt.Errorf("es: search is not configured")
	}

	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"username^2", "email"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("es: encode query: %w", err)
	}

	res, err := x.ES.Search(
		x.ES.Search.WithContext(ctx),
		x.ES.Search.WithIndex(x.Index),
		x.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("es: search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("es: search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source UserDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	docs := make([]UserDoc, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		docs[i] = hit.Source
	}
	return r.Hits.Total.Value, docs, nil
}
