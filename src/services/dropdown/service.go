// Package dropdown โหลดตัวเลือกของ api-dropdown field/column
// จาก lookup service ภายนอกแบบแบ่งหน้า
package dropdown

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"Backend-FormForge/src/database"
	"Backend-FormForge/src/models"
)

// ErrSuperseded — query นี้ถูกแทนที่ด้วย query ที่ใหม่กว่าของ client เดียวกัน
// ผลลัพธ์ของ request เก่าถูกทิ้ง (last request wins)
var ErrSuperseded = errors.New("dropdown query superseded by a newer one")

const cacheTTL = 5 * time.Minute

type inflight struct {
	seq    uint64
	cancel context.CancelFunc
}

// Loader ยิง HTTP ไป endpoint ภายนอก พร้อม cache ใน Redis
// และกลไก supersede สำหรับ query ที่พิมพ์ค้นหารัว ๆ
type Loader struct {
	client *http.Client

	mu       sync.Mutex
	seq      uint64
	inflight map[string]*inflight
}

func NewLoader() *Loader {
	return &Loader{
		client:   &http.Client{Timeout: 20 * time.Second},
		inflight: make(map[string]*inflight),
	}
}

// DefaultLoader ใช้ร่วมกันทุก request ของ dropdown controller
var DefaultLoader = NewLoader()

// LoadPage ดึงหนึ่งหน้าของตัวเลือกจาก endpoint
//
// endpoint แต่ละเจ้าตอบไม่เหมือนกัน ต้องรับได้สามแบบ:
// bare array, {results: [...], next: cursor} และ object-of-objects
func (l *Loader) LoadPage(ctx context.Context, endpoint, search, pageToken string) (*models.DropdownPage, error) {
	cacheKey := fmt.Sprintf("dropdown:%s:%s:%s", endpoint, search, pageToken)
	if page := cacheGet(ctx, cacheKey); page != nil {
		return page, nil
	}

	reqURL, err := buildURL(endpoint, search, pageToken)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	res, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, errors.New("dropdown endpoint returned status " + res.Status)
	}

	var body interface{}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, err
	}

	page := parseResponse(body)
	cacheSet(ctx, cacheKey, page)
	return page, nil
}

// LoadLatest เหมือน LoadPage แต่ยกเลิก request ที่ยังค้างอยู่ของ client
// เดียวกันก่อน — มีแค่ query ล่าสุดเท่านั้นที่ได้ส่งผลลัพธ์กลับ
func (l *Loader) LoadLatest(ctx context.Context, clientKey, endpoint, search, pageToken string) (*models.DropdownPage, error) {
	cctx, cancel := context.WithCancel(ctx)

	l.mu.Lock()
	l.seq++
	seq := l.seq
	if prev, ok := l.inflight[clientKey]; ok {
		prev.cancel()
	}
	l.inflight[clientKey] = &inflight{seq: seq, cancel: cancel}
	l.mu.Unlock()

	page, err := l.LoadPage(cctx, endpoint, search, pageToken)

	l.mu.Lock()
	cur, ok := l.inflight[clientKey]
	latest := ok && cur.seq == seq
	if latest {
		delete(l.inflight, clientKey)
	}
	l.mu.Unlock()
	cancel()

	if !latest {
		return nil, ErrSuperseded
	}
	return page, err
}

func buildURL(endpoint, search, pageToken string) (string, error) {
	// next cursor แบบ absolute URL ใช้ตรง ๆ ได้เลย
	if strings.HasPrefix(pageToken, "http://") || strings.HasPrefix(pageToken, "https://") {
		return pageToken, nil
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}
	q := u.Query()
	if search != "" {
		q.Set("search", search)
	}
	if pageToken != "" {
		q.Set("page", pageToken)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func parseResponse(body interface{}) *models.DropdownPage {
	switch v := body.(type) {
	case []interface{}:
		return &models.DropdownPage{Options: optionsFromList(v)}
	case map[string]interface{}:
		if results, ok := v["results"].([]interface{}); ok {
			next, _ := v["next"].(string)
			return &models.DropdownPage{
				Options:       optionsFromList(results),
				HasMore:       next != "",
				NextPageToken: next,
			}
		}
		// object-of-objects: แต่ละ value กลายเป็นหนึ่งตัวเลือก
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		options := make([]models.DropdownOption, 0, len(v))
		for _, k := range keys {
			options = append(options, optionFromItem(v[k]))
		}
		return &models.DropdownPage{Options: options}
	default:
		return &models.DropdownPage{Options: []models.DropdownOption{}}
	}
}

func optionsFromList(items []interface{}) []models.DropdownOption {
	options := make([]models.DropdownOption, 0, len(items))
	for _, item := range items {
		options = append(options, optionFromItem(item))
	}
	return options
}

// optionFromItem เลือก value/label ตาม fallback chain:
// value: id | value | name | label | serialized item
// label: title | name | label | id | serialized item
func optionFromItem(item interface{}) models.DropdownOption {
	m, ok := item.(map[string]interface{})
	if !ok {
		s := stringify(item)
		return models.DropdownOption{Value: s, Label: s}
	}
	return models.DropdownOption{
		Value: pick(m, "id", "value", "name", "label"),
		Label: pick(m, "title", "name", "label", "id"),
	}
}

func pick(m map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v, ok := m[key]; ok && v != nil {
			return stringify(v)
		}
	}
	return stringify(m)
}

func stringify(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}

func cacheGet(ctx context.Context, key string) *models.DropdownPage {
	if database.RedisClient == nil {
		return nil
	}
	raw, err := database.RedisClient.Get(ctx, key).Result()
	if err != nil {
		return nil
	}
	var page models.DropdownPage
	if err := json.Unmarshal([]byte(raw), &page); err != nil {
		return nil
	}
	return &page
}

func cacheSet(ctx context.Context, key string, page *models.DropdownPage) {
	if database.RedisClient == nil {
		return
	}
	raw, err := json.Marshal(page)
	if err != nil {
		return
	}
	database.RedisClient.Set(ctx, key, raw, cacheTTL)
}
