package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mouse-haven/internal/models"
)

// ErrCatalogFetch 目录获取失败（网络或解析），调用方应降级为空目录
var ErrCatalogFetch = errors.New("catalog fetch failure")

const maxCatalogBytes = 8 << 20

// Source 目录数据源
type Source interface {
	Fetch(ctx context.Context) ([]models.Product, error)
}

// HTTPSource 通过 HTTP 拉取 { "products": [...] }
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// NewHTTPSource 创建 HTTP 数据源
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPSource{
		URL:    strings.TrimSpace(url),
		Client: &http.Client{Timeout: timeout},
	}
}

// Fetch 拉取目录
func (s *HTTPSource) Fetch(ctx context.Context) ([]models.Product, error) {
	if s == nil || s.URL == "" {
		return nil, fmt.Errorf("%w: source url is empty", ErrCatalogFetch)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrCatalogFetch, resp.StatusCode)
	}
	return decodePayload(io.LimitReader(resp.Body, maxCatalogBytes))
}

// FileSource 从本地 JSON 文件读取目录
type FileSource struct {
	Path string
}

// Fetch 读取目录文件
func (s *FileSource) Fetch(_ context.Context) ([]models.Product, error) {
	if s == nil || strings.TrimSpace(s.Path) == "" {
		return nil, fmt.Errorf("%w: file path is empty", ErrCatalogFetch)
	}
	file, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogFetch, err)
	}
	defer file.Close()
	return decodePayload(io.LimitReader(file, maxCatalogBytes))
}

func decodePayload(r io.Reader) ([]models.Product, error) {
	var payload models.CatalogPayload
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode payload: %v", ErrCatalogFetch, err)
	}
	products := make([]models.Product, 0, len(payload.Products))
	for _, p := range payload.Products {
		if p.ID == 0 || p.Price.IsNegative() {
			continue
		}
		products = append(products, p)
	}
	return products, nil
}
