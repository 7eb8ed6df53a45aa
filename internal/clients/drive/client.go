package drive

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/skywardclean/ordering-backend/internal/logger"
)

const folderMIMEType = "application/vnd.google-apps.folder"

type File struct {
	ID       string
	Name     string
	MIMEType string
}

func (f File) IsFolder() bool { return f.MIMEType == folderMIMEType }

// Client is a read-only wrapper over the Drive v3 API, scoped to what the
// image sync needs: listing folder children and downloading file content.
type Client interface {
	ListChildren(ctx context.Context, folderID string) ([]File, error)
	Download(ctx context.Context, fileID string) (io.ReadCloser, error)
}

type client struct {
	log *logger.Logger
	svc *drive.Service
}

func NewFromEnv(ctx context.Context, log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	credsPath := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"))
	var svc *drive.Service
	var err error
	if credsPath != "" {
		svc, err = drive.NewService(ctx, option.WithCredentialsFile(credsPath), option.WithScopes(drive.DriveReadonlyScope))
	} else {
		svc, err = drive.NewService(ctx, option.WithScopes(drive.DriveReadonlyScope))
	}
	if err != nil {
		return nil, fmt.Errorf("Failed to create drive service: %w", err)
	}
	return &client{log: log.With("client", "DriveClient"), svc: svc}, nil
}

func (c *client) ListChildren(ctx context.Context, folderID string) ([]File, error) {
	var files []File
	pageToken := ""
	for {
		call := c.svc.Files.List().
			Context(ctx).
			Q(fmt.Sprintf("'%s' in parents and trashed=false", folderID)).
			Fields("nextPageToken, files(id, name, mimeType)").
			PageSize(1000)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		res, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("Failed to list drive folder %q: %w", folderID, err)
		}
		for _, f := range res.Files {
			files = append(files, File{ID: f.Id, Name: f.Name, MIMEType: f.MimeType})
		}
		if res.NextPageToken == "" {
			break
		}
		pageToken = res.NextPageToken
	}
	return files, nil
}

func (c *client) Download(ctx context.Context, fileID string) (io.ReadCloser, error) {
	res, err := c.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("Failed to download drive file %q: %w", fileID, err)
	}
	return res.Body, nil
}
