package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"

	"github.com/Skotchmaster/campus_cafeteria/internal/models"
)

const MenuIndexName = "menu_items"

type menuDoc struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Category string `json:"category"`
}

// MenuIndex mirrors inventory rows into Elasticsearch for fuzzy menu search.
type MenuIndex struct {
	Client *elasticsearch.Client
	Index  string
}

func NewMenuIndex(client *elasticsearch.Client) *MenuIndex {
	return &MenuIndex{Client: client, Index: MenuIndexName}
}

func responseErr(op string, res *esapi.Response) error {
	body, _ := io.ReadAll(res.Body)
	return fmt.Errorf("es %s: %s: %s", op, res.Status(), body)
}

func (m *MenuIndex) IndexItem(ctx context.Context, item models.InventoryItem) error {
	body, err := json.Marshal(menuDoc{ID: item.ID, Name: item.Name, Quantity: item.Quantity, Category: item.Category})
	if err != nil {
		return err
	}

	res, err := m.Client.Index(
		m.Index,
		bytes.NewReader(body),
		m.Client.Index.WithContext(ctx),
		m.Client.Index.WithDocumentID(strconv.FormatUint(uint64(item.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("es index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseErr("index", res)
	}
	return nil
}

func (m *MenuIndex) DeleteItem(ctx context.Context, id uint) error {
	res, err := m.Client.Delete(m.Index, strconv.FormatUint(uint64(id), 10), m.Client.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("es delete: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return responseErr("delete", res)
	}
	return nil
}

func (m *MenuIndex) Search(ctx context.Context, query string, from, size int) (int64, []models.InventoryItem, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "category"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("es search: %w", err)
	}

	res, err := m.Client.Search(
		m.Client.Search.WithContext(ctx),
		m.Client.Search.WithIndex(m.Index),
		m.Client.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("es search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, responseErr("search", res)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source menuDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	items := make([]models.InventoryItem, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		d := hit.Source
		items[i] = models.InventoryItem{ID: d.ID, Name: d.Name, Quantity: d.Quantity, Category: d.Category}
	}
	return r.Hits.Total.Value, items, nil
}
