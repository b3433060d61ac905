package fetch

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/Vovarama1992/pdf_ziper/internal/convert"
	json "github.com/goccy/go-json"
)

// resolveObjectName maps a storage file id to its object name through the
// bucket list endpoint. Callers that already know the name never get here.
func (s *Service) resolveObjectName(ctx context.Context, ref *convert.StorageRef) (string, error) {
	url := fmt.Sprintf("%s/storage/v1/object/list/%s", ref.Endpoint, ref.Bucket)

	body, err := json.Marshal(map[string]any{
		"prefix": "",
		"limit":  1000,
		"offset": 0,
	})
	if err != nil {
		return "", convert.Wrapf(convert.KindInternal, err, "internal error")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", convert.Wrapf(convert.KindBadRequest, err, "invalid storage reference")
	}
	httpReq.Header.Set("Authorization", "Bearer "+ref.ServiceKey)
	httpReq.Header.Set("apikey", ref.ServiceKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", convert.Wrapf(convert.KindFetchFailed, err, "failed to list storage bucket")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", convert.Errf(convert.KindFetchFailed, "storage list failed with status %d", resp.StatusCode)
	}

	var files []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&files); err != nil {
		return "", convert.Wrapf(convert.KindFetchFailed, err, "storage list returned invalid response")
	}

	for _, f := range files {
		if f.ID == ref.FileID {
			return f.Name, nil
		}
	}
	return "", convert.Errf(convert.KindFetchFailed, "no file with id %s in bucket", ref.FileID)
}
