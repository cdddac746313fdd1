package services

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hexpertify/moodlift/config"
	"github.com/hexpertify/moodlift/models"
	"github.com/hexpertify/moodlift/utils"
)

const (
	sitemapCacheTTL        = time.Hour
	defaultChangeFrequency = "weekly"
	rootPriority           = 1.0
	pagePriority           = 0.7
	sitemapXMLNS           = "http://www.sitemaps.org/schemas/sitemap/0.9"
)

// StaticPaths are the product routes that always appear in the sitemap.
var StaticPaths = []string{
	"/",
	"/about",
	"/blog",
	"/books",
	"/contact",
	"/discover",
	"/games",
	"/games&activities",
	"/mood-assessment",
	"/all-activities",
	"/dashboard",
	"/progress",
	"/rewards",
	"/privacy-policy",
}

var changeFrequencies = map[string]bool{
	"always": true, "hourly": true, "daily": true, "weekly": true,
	"monthly": true, "yearly": true, "never": true,
}

// SitemapEntry is one URL of the sitemap.
type SitemapEntry struct {
	URL             string    `json:"url"`
	LastModified    time.Time `json:"lastModified"`
	ChangeFrequency string    `json:"changeFrequency"`
	Priority        float64   `json:"priority"`
}

// SeoPage is the meta information for one page path.
type SeoPage struct {
	PageURL        string                `json:"page_url"`
	Title          string                `json:"title"`
	Description    string                `json:"description"`
	Keywords       string                `json:"keywords"`
	GameID         *uint                 `json:"game_id,omitempty"`
	StructuredData *utils.StructuredData `json:"structured_data,omitempty"`
}

// SeoService builds the sitemap and serves page metadata.
type SeoService struct {
	db     *gorm.DB
	origin string
	now    func() time.Time
}

// NewSeoService creates a SeoService rooted at the configured site origin.
func NewSeoService(db *gorm.DB, cfg config.AppConfig) *SeoService {
	return &SeoService{db: db, origin: cfg.SiteOrigin(), now: time.Now}
}

// BuildSitemap returns static entries followed by SEO-metadata entries.
// An SEO entry replaces the static entry with the same URL in place. If the SEO source fails
// the static entries are returned alone.
func (s *SeoService) BuildSitemap(ctx context.Context) []SitemapEntry {
	now := s.now().UTC()

	entries := make([]SitemapEntry, 0, len(StaticPaths))
	byURL := make(map[string]int, len(StaticPaths))
	for _, path := range StaticPaths {
		e := SitemapEntry{
			URL:             s.origin + path,
			LastModified:    now,
			ChangeFrequency: defaultChangeFrequency,
			Priority:        defaultPriority(path),
		}
		byURL[e.URL] = len(entries)
		entries = append(entries, e)
	}

	var rows []models.SeoMetadata
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		utils.Logger.Error("error building SEO-based sitemap entries", zap.Error(err))
		return entries
	}

	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		e, ok := s.entryFromSeo(row, now)
		if !ok || seen[e.URL] {
			continue
		}
		seen[e.URL] = true
		if i, exists := byURL[e.URL]; exists {
			entries[i] = e
			continue
		}
		byURL[e.URL] = len(entries)
		entries = append(entries, e)
	}
	return entries
}

func (s *SeoService) entryFromSeo(row models.SeoMetadata, now time.Time) (SitemapEntry, bool) {
	path := normalizePagePath(row.PageURL)
	if path == "" {
		return SitemapEntry{}, false
	}

	e := SitemapEntry{
		URL:             s.origin + path,
		LastModified:    now,
		ChangeFrequency: defaultChangeFrequency,
		Priority:        defaultPriority(path),
	}
	if !row.UpdatedAt.IsZero() {
		e.LastModified = row.UpdatedAt.UTC()
	}
	if cf := strings.ToLower(strings.TrimSpace(row.ChangeFrequency)); changeFrequencies[cf] {
		e.ChangeFrequency = cf
	}
	if row.Priority != nil && *row.Priority >= 0 && *row.Priority <= 1 {
		e.Priority = *row.Priority
	}
	return e, true
}

func defaultPriority(path string) float64 {
	if path == "/" {
		return rootPriority
	}
	return pagePriority
}

type xmlURLSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []xmlURL `xml:"url"`
}

type xmlURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// RenderSitemapXML encodes entries as a sitemaps.org urlset document.
func RenderSitemapXML(entries []SitemapEntry) ([]byte, error) {
	set := xmlURLSet{XMLNS: sitemapXMLNS, URLs: make([]xmlURL, len(entries))}
	for i, e := range entries {
		set.URLs[i] = xmlURL{
			Loc:        e.URL,
			LastMod:    e.LastModified.UTC().Format(time.RFC3339),
			ChangeFreq: e.ChangeFrequency,
			Priority:   strconv.FormatFloat(e.Priority, 'f', 1, 64),
		}
	}
	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal sitemap: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

// SitemapXML returns the rendered sitemap, cached for an hour when Redis is configured.
func (s *SeoService) SitemapXML(ctx context.Context) ([]byte, error) {
	if b, ok := utils.CacheGetBytes(ctx, utils.CacheKeySitemapXML); ok {
		return b, nil
	}
	b, err := RenderSitemapXML(s.BuildSitemap(ctx))
	if err != nil {
		return nil, err
	}
	utils.CacheSetBytes(ctx, utils.CacheKeySitemapXML, b, sitemapCacheTTL)
	return b, nil
}

// GetSeoMetadata returns the metadata for a page path, with its JSON-LD script when present.
func (s *SeoService) GetSeoMetadata(ctx context.Context, path string) (*SeoPage, error) {
	path = normalizePagePath(path)
	if path == "" {
		return nil, fmt.Errorf("%w: path is required", ErrInvalidInput)
	}

	// Rows may be stored with or without the leading and trailing slash
	candidates := []string{path}
	if bare := strings.TrimPrefix(path, "/"); bare != "" {
		candidates = append(candidates, bare, path+"/", bare+"/")
	}

	var row models.SeoMetadata
	err := s.db.WithContext(ctx).
		Where("page_url IN ?", candidates).
		Order("id ASC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load seo metadata: %w", err)
	}

	page := &SeoPage{
		PageURL:     path,
		Title:       row.Title,
		Description: row.Description,
		Keywords:    row.Keywords,
		GameID:      row.GameID,
	}
	if doc := strings.TrimSpace(row.StructuredData); doc != "" {
		sd, err := utils.StructuredDataFromJSON("", doc)
		if err != nil {
			utils.Logger.Warn("invalid structured data", zap.Uint("seo_id", row.ID), zap.Error(err))
		} else {
			page.StructuredData = &sd
		}
	}
	return page, nil
}

func normalizePagePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}
