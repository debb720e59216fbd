// Package upload publishes rendered shorts to YouTube. Credentials are the
// OAuth client plus refresh token of the channel, read from the environment
// and never stored.
package upload

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Credentials holds the OAuth2 pieces of the publishing channel.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// CredentialsFromEnv reads YOUTUBE_CLIENT_ID, YOUTUBE_CLIENT_SECRET and
// YOUTUBE_REFRESH_TOKEN.
func CredentialsFromEnv() Credentials {
	return Credentials{
		ClientID:     os.Getenv("YOUTUBE_CLIENT_ID"),
		ClientSecret: os.Getenv("YOUTUBE_CLIENT_SECRET"),
		RefreshToken: os.Getenv("YOUTUBE_REFRESH_TOKEN"),
	}
}

// Complete reports whether every credential piece is present.
func (c Credentials) Complete() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
}

// Service wraps an authenticated YouTube client.
type Service struct {
	youtube *youtube.Service
	logger  *log.Logger
}

// NewService builds a YouTube client from a refresh token. The token is
// exchanged lazily on the first request.
func NewService(ctx context.Context, creds Credentials, logger *log.Logger) (*Service, error) {
	if !creds.Complete() {
		return nil, errors.New("youtube credentials not configured (set YOUTUBE_CLIENT_ID, YOUTUBE_CLIENT_SECRET, YOUTUBE_REFRESH_TOKEN)")
	}

	conf := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{youtube.YoutubeUploadScope},
	}
	client := conf.Client(ctx, &oauth2.Token{RefreshToken: creds.RefreshToken})

	yt, err := youtube.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, errors.Wrap(err, "create youtube client")
	}

	return &Service{youtube: yt, logger: logger}, nil
}

// Upload publishes one file and returns its watch URL.
func (s *Service) Upload(ctx context.Context, path string, video Video) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "open video")
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", errors.Wrap(err, "stat video")
	}
	s.logf("uploading %s (%.2f MB)", filepath.Base(path), float64(info.Size())/(1024*1024))

	body := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       video.Title,
			Description: video.Description,
			Tags:        video.Tags,
			CategoryId:  video.CategoryID,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           video.Privacy,
			MadeForKids:             false,
			SelfDeclaredMadeForKids: false,
			// Zero-valued fields are dropped from the request unless
			// forced, and YouTube requires an explicit declaration.
			ForceSendFields: []string{"MadeForKids", "SelfDeclaredMadeForKids"},
		},
	}

	call := s.youtube.Videos.Insert([]string{"snippet", "status"}, body).Media(file).Context(ctx)
	resp, err := call.Do()
	if err != nil {
		return "", errors.Wrapf(err, "upload %s", filepath.Base(path))
	}

	url := WatchURL(resp.Id)
	s.logf("uploaded %s: %s", filepath.Base(path), url)
	return url, nil
}

// WatchURL renders the public link for a video id.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

func (s *Service) logf(format string, args ...any) {
	if s == nil || s.logger == nil {
		return
	}
	s.logger.Printf(format, args...)
}
