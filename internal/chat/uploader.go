package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/url"
	"strconv"
	"strings"

	"github.com/posaune0423/aw-analyzer/internal/httpclient"
	awerrors "github.com/posaune0423/aw-analyzer/pkg/errors"
)

const (
	uploadURLExternalPath  = "https://slack.com/api/files.getUploadURLExternal"
	completeUploadExternal = "https://slack.com/api/files.completeUploadExternal"
	sharedPublicURLPath    = "https://slack.com/api/files.sharedPublicURL"
	filesInfoPath          = "https://slack.com/api/files.info"
)

// Uploader implements the three-leg chat file-upload protocol: request
// an upload URL, POST the bytes as multipart form data, then complete
// the upload. Each leg
// surfaces a distinct error.
type Uploader struct {
	botToken  string
	channelID string
	http      *httpclient.Client
}

// NewUploader builds an Uploader authenticated with botToken, posting
// completed uploads to channelID by default.
func NewUploader(botToken, channelID string, client *httpclient.Client) *Uploader {
	return &Uploader{botToken: botToken, channelID: channelID, http: client}
}

// UploadResult is the {permalink?, fileId, permalinkPublic?} shape
// returned by a completed upload.
type UploadResult struct {
	FileID          string
	Permalink       string
	PermalinkPublic string
}

// Upload runs the full three-leg protocol for a single file, then
// attempts the optional public-share flow. A failure in the
// public-share flow never fails the overall upload; PermalinkPublic is
// simply left empty.
func (u *Uploader) Upload(ctx context.Context, filename string, content []byte, title, initialComment string) (UploadResult, error) {
	if u.botToken == "" {
		return UploadResult{}, awerrors.Config("chat bot token is required")
	}

	uploadURL, fileID, err := u.getUploadURLExternalAt(ctx, uploadURLExternalPath, filename, len(content))
	if err != nil {
		return UploadResult{}, err
	}

	if err := u.putFileBytes(ctx, uploadURL, filename, content); err != nil {
		return UploadResult{}, err
	}

	permalink, err := u.completeUploadAt(ctx, completeUploadExternal, fileID, title, initialComment)
	if err != nil {
		return UploadResult{}, err
	}

	result := UploadResult{FileID: fileID, Permalink: permalink}
	result.PermalinkPublic = u.tryPublicShareAt(ctx, sharedPublicURLPath, filesInfoPath, fileID)
	return result, nil
}

func (u *Uploader) authHeaders() map[string]string {
	return map[string]string{"Authorization": "Bearer " + u.botToken}
}

func (u *Uploader) getUploadURLExternalAt(ctx context.Context, endpoint, filename string, length int) (string, string, error) {
	form := url.Values{}
	form.Set("filename", filename)
	form.Set("length", strconv.Itoa(length))

	raw, status, err := u.http.PostForm(ctx, endpoint, u.authHeaders(), bytes.NewReader([]byte(form.Encode())), "application/x-www-form-urlencoded")
	if err != nil {
		return "", "", err
	}
	if status < 200 || status >= 300 {
		return "", "", awerrors.HTTP(fmt.Sprintf("getUploadURLExternal transport failure: status %d", status), status)
	}

	var resp struct {
		OK               bool             `json:"ok"`
		Error            string           `json:"error"`
		UploadURL        string           `json:"upload_url"`
		FileID           string           `json:"file_id"`
		ResponseMetadata responseMetadata `json:"response_metadata"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", "", awerrors.Parse("failed to decode getUploadURLExternal response", err)
	}
	if !resp.OK {
		return "", "", awerrors.API(fmt.Sprintf("getUploadURLExternal failed: %s", resp.ResponseMetadata.errorString(resp.Error)))
	}
	return resp.UploadURL, resp.FileID, nil
}

// responseMetadata carries Slack's secondary error detail, surfaced
// alongside the top-level error field.
type responseMetadata struct {
	Messages []string `json:"messages"`
}

// errorString joins the top-level error with any response_metadata
// messages so both reach the returned api_error.
func (m responseMetadata) errorString(topLevel string) string {
	if len(m.Messages) == 0 {
		return topLevel
	}
	return fmt.Sprintf("%s (%s)", topLevel, strings.Join(m.Messages, "; "))
}

func (u *Uploader) putFileBytes(ctx context.Context, uploadURL, filename string, content []byte) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return awerrors.Connection("failed to build multipart upload body", err)
	}
	if _, err := part.Write(content); err != nil {
		return awerrors.Connection("failed to write multipart upload body", err)
	}
	if err := writer.Close(); err != nil {
		return awerrors.Connection("failed to finalize multipart upload body", err)
	}

	// This leg carries no Slack auth header; the upload_url is itself
	// the one-time credential.
	raw, status, err := u.http.PostForm(ctx, uploadURL, nil, &body, writer.FormDataContentType())
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return awerrors.HTTP(fmt.Sprintf("file upload POST leg failed: status %d: %s", status, string(raw)), status)
	}
	return nil
}

func (u *Uploader) completeUploadAt(ctx context.Context, endpoint, fileID, title, initialComment string) (string, error) {
	files, err := json.Marshal([]map[string]string{{"id": fileID, "title": title}})
	if err != nil {
		return "", awerrors.Connection("failed to marshal completeUploadExternal files", err)
	}

	form := url.Values{}
	form.Set("files", string(files))
	if u.channelID != "" {
		form.Set("channel_id", u.channelID)
	}
	if initialComment != "" {
		form.Set("initial_comment", initialComment)
	}

	raw, status, err := u.http.PostForm(ctx, endpoint, u.authHeaders(), bytes.NewReader([]byte(form.Encode())), "application/x-www-form-urlencoded")
	if err != nil {
		return "", err
	}
	if status < 200 || status >= 300 {
		return "", awerrors.HTTP(fmt.Sprintf("completeUploadExternal transport failure: status %d", status), status)
	}

	var resp struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
		Files []struct {
			Permalink string `json:"permalink"`
		} `json:"files"`
		ResponseMetadata responseMetadata `json:"response_metadata"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", awerrors.Parse("failed to decode completeUploadExternal response", err)
	}
	if !resp.OK {
		return "", awerrors.API(fmt.Sprintf("completeUploadExternal failed: %s", resp.ResponseMetadata.errorString(resp.Error)))
	}
	if len(resp.Files) == 0 {
		return "", nil
	}
	return resp.Files[0].Permalink, nil
}

// tryPublicShareAt attempts sharedPublicURL, falling back to files.info
// for permalink_public; any failure yields an empty string rather than
// an error, so the upload as a whole still succeeds without a public
// link.
func (u *Uploader) tryPublicShareAt(ctx context.Context, shareEndpoint, infoEndpoint, fileID string) string {
	form := url.Values{}
	form.Set("file", fileID)

	raw, status, err := u.http.PostForm(ctx, shareEndpoint, u.authHeaders(), bytes.NewReader([]byte(form.Encode())), "application/x-www-form-urlencoded")
	if err == nil && status >= 200 && status < 300 {
		var resp struct {
			OK   bool `json:"ok"`
			File struct {
				PermalinkPublic string `json:"permalink_public"`
			} `json:"file"`
		}
		if json.Unmarshal(raw, &resp) == nil && resp.OK {
			return resp.File.PermalinkPublic
		}
	}

	return u.fallbackFilesInfo(ctx, infoEndpoint, fileID)
}

func (u *Uploader) fallbackFilesInfo(ctx context.Context, infoEndpoint, fileID string) string {
	infoURL := infoEndpoint + "?" + url.Values{"file": {fileID}}.Encode()
	var resp struct {
		OK   bool `json:"ok"`
		File struct {
			PermalinkPublic string `json:"permalink_public"`
		} `json:"file"`
	}
	status, err := u.http.GetJSON(ctx, infoURL, u.authHeaders(), &resp)
	if err != nil || status < 200 || status >= 300 || !resp.OK {
		return ""
	}
	return resp.File.PermalinkPublic
}
