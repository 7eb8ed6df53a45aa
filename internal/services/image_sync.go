package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/skywardclean/ordering-backend/internal/clients/drive"
	"github.com/skywardclean/ordering-backend/internal/logger"
	"github.com/skywardclean/ordering-backend/internal/repos"
)

// Product image filenames carry the SKU:
//   PRO_<SKU>_product_<SKU>_usn[ (n)].<ext>
//   PRO_<SKU>.<ext>
var skuFilenamePattern = regexp.MustCompile(`(?i)^PRO_([A-Za-z0-9-]+)(?:_product_[A-Za-z0-9-]+(?:_usn)?(?: \(\d+\))?)?\.(?:webp|png|jpg|jpeg)$`)

// ExtractSKU pulls the SKU out of a product image filename, uppercased.
func ExtractSKU(filename string) (string, bool) {
	m := skuFilenamePattern.FindStringSubmatch(filename)
	if m == nil {
		return "", false
	}
	return strings.ToUpper(m[1]), true
}

var (
	parenthesized = regexp.MustCompile(`\([^)]*\)`)
	folderMarkers = regexp.MustCompile(`(?i)\bCOMPLETED\b|\bN-?A IN HD SUPPLY\b`)
)

// CleanSiteFolderName strips annotations people add to site folders
// ("(done)", "Completed", supplier notes) before the name is normalized for
// matching against stored sites.
func CleanSiteFolderName(folderName string) string {
	out := parenthesized.ReplaceAllString(folderName, " ")
	return folderMarkers.ReplaceAllString(out, " ")
}

func contentTypeByExtension(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".webp":
		return "image/webp"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}

type SyncStats struct {
	Uploaded     int `json:"uploaded"`
	Linked       int `json:"linked"`
	SkippedSites int `json:"skipped_sites"`
	SkippedFiles int `json:"skipped_files"`
}

// ImageSyncService walks a folder-per-site image tree (Google Drive or
// local disk), uploads each product image under
// <normalizedSiteName>/<filename>, and points the matching site-item link
// at it via an explicit image_path update.
type ImageSyncService struct {
	log    *logger.Logger
	drive  drive.Client
	bucket BucketService

	sites     repos.SiteRepo
	items     repos.ItemRepo
	siteItems repos.SiteItemRepo
}

func NewImageSyncService(
	baseLog *logger.Logger,
	driveClient drive.Client,
	bucket BucketService,
	siteRepo repos.SiteRepo,
	itemRepo repos.ItemRepo,
	siteItemRepo repos.SiteItemRepo,
) *ImageSyncService {
	return &ImageSyncService{
		log:       baseLog.With("service", "ImageSyncService"),
		drive:     driveClient,
		bucket:    bucket,
		sites:     siteRepo,
		items:     itemRepo,
		siteItems: siteItemRepo,
	}
}

func (s *ImageSyncService) lookups(ctx context.Context) (map[string]int64, map[string]int64, error) {
	items, err := s.items.List(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	skuToItemID := map[string]int64{}
	for _, item := range items {
		if item.SKU == nil || *item.SKU == "" {
			continue
		}
		skuToItemID[strings.ToUpper(*item.SKU)] = item.ID
	}
	sites, err := s.sites.List(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	normToSiteID := map[string]int64{}
	for _, site := range sites {
		normToSiteID[NormalizeSiteName(site.Name)] = site.ID
	}
	return skuToItemID, normToSiteID, nil
}

func (s *ImageSyncService) SyncDrive(ctx context.Context, rootFolderID string) (*SyncStats, error) {
	if s.drive == nil {
		return nil, fmt.Errorf("drive client not configured")
	}
	skuToItemID, normToSiteID, err := s.lookups(ctx)
	if err != nil {
		return nil, err
	}

	stats := &SyncStats{}
	siteFolders, err := s.drive.ListChildren(ctx, rootFolderID)
	if err != nil {
		return nil, err
	}
	for _, folder := range siteFolders {
		if !folder.IsFolder() {
			continue
		}
		normSite := NormalizeSiteName(CleanSiteFolderName(folder.Name))
		siteID, ok := normToSiteID[normSite]
		if !ok {
			s.log.Info("skip site folder without match", "folder", folder.Name)
			stats.SkippedSites++
			continue
		}
		images, err := s.drive.ListChildren(ctx, folder.ID)
		if err != nil {
			return stats, err
		}
		for _, img := range images {
			if img.IsFolder() {
				continue
			}
			sku, ok := ExtractSKU(img.Name)
			if !ok {
				stats.SkippedFiles++
				continue
			}
			body, err := s.drive.Download(ctx, img.ID)
			if err != nil {
				return stats, err
			}
			destPath := fmt.Sprintf("%s/%s", normSite, img.Name)
			uploadErr := s.bucket.UploadFile(ctx, destPath, contentTypeByExtension(img.Name), body)
			body.Close()
			if uploadErr != nil {
				return stats, uploadErr
			}
			stats.Uploaded++
			if itemID, ok := skuToItemID[sku]; ok {
				if err := s.siteItems.UpdateImagePath(ctx, nil, siteID, itemID, destPath); err != nil {
					return stats, err
				}
				stats.Linked++
				s.log.Info("uploaded and linked", "site", folder.Name, "file", img.Name)
			} else {
				s.log.Info("uploaded without link, sku not found", "site", folder.Name, "file", img.Name, "sku", sku)
			}
		}
	}
	return stats, nil
}

// SyncLocalDir is the local-disk counterpart of SyncDrive, for image dumps
// that never made it to the shared drive.
func (s *ImageSyncService) SyncLocalDir(ctx context.Context, root string) (*SyncStats, error) {
	skuToItemID, normToSiteID, err := s.lookups(ctx)
	if err != nil {
		return nil, err
	}

	stats := &SyncStats{}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("Failed to read images dir %q: %w", root, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		folderName := entry.Name()
		normSite := NormalizeSiteName(CleanSiteFolderName(folderName))
		siteID, ok := normToSiteID[normSite]
		if !ok {
			s.log.Info("skip site folder without match", "folder", folderName)
			stats.SkippedSites++
			continue
		}
		files, err := os.ReadDir(filepath.Join(root, folderName))
		if err != nil {
			return stats, err
		}
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			sku, ok := ExtractSKU(f.Name())
			if !ok {
				stats.SkippedFiles++
				continue
			}
			fh, err := os.Open(filepath.Join(root, folderName, f.Name()))
			if err != nil {
				return stats, err
			}
			destPath := fmt.Sprintf("%s/%s", normSite, f.Name())
			uploadErr := s.bucket.UploadFile(ctx, destPath, contentTypeByExtension(f.Name()), fh)
			fh.Close()
			if uploadErr != nil {
				return stats, uploadErr
			}
			stats.Uploaded++
			if itemID, ok := skuToItemID[sku]; ok {
				if err := s.siteItems.UpdateImagePath(ctx, nil, siteID, itemID, destPath); err != nil {
					return stats, err
				}
				stats.Linked++
			}
		}
	}
	return stats, nil
}
