package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"

	"golang.org/x/oauth2"

	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/config"
)

const (
	driveUploadURL = "https://www.googleapis.com/upload/drive/v3/files?uploadType=multipart&fields=id,name"
	driveFilesURL  = "https://www.googleapis.com/drive/v3/files"
	driveTokenURL  = "https://oauth2.googleapis.com/token"
)

// DrivePublisher загружает файлы в папку Google Drive и выдаёт на них
// общедоступную ссылку.
type DrivePublisher struct {
	folderID string
	client   *http.Client
}

// NewDrivePublisher создаёт DrivePublisher с OAuth-клиентом на refresh-токене.
func NewDrivePublisher(cfg config.DriveConfig) *DrivePublisher {
	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL: driveTokenURL,
		},
	}

	src := oauthCfg.TokenSource(context.Background(), &oauth2.Token{
		RefreshToken: cfg.RefreshToken,
	})

	return &DrivePublisher{
		folderID: cfg.FolderID,
		client:   oauth2.NewClient(context.Background(), src),
	}
}

// Publish загружает файл в папку Drive, открывает доступ по ссылке и
// возвращает её. Состояние сервиса при ошибке не меняется: локальным
// файлом владеет вызывающая сторона.
func (p *DrivePublisher) Publish(ctx context.Context, path, filename string) (Result, error) {
	if p.folderID == "" {
		return Result{}, fmt.Errorf("google drive folder id is not configured")
	}

	content, err := os.ReadFile(path)

	if err != nil {
		return Result{}, fmt.Errorf("read chart file: %w", err)
	}

	fileID, name, err := p.upload(ctx, filename, content)

	if err != nil {
		return Result{}, err
	}

	if err := p.shareWithAnyone(ctx, fileID); err != nil {
		return Result{}, err
	}

	return Result{
		FileID:   fileID,
		Link:     fmt.Sprintf("https://drive.google.com/file/d/%s/view?usp=sharing", fileID),
		Filename: name,
	}, nil
}

func (p *DrivePublisher) upload(ctx context.Context, filename string, content []byte) (string, string, error) {
	meta := map[string]any{
		"name":    filename,
		"parents": []string{p.folderID},
	}

	var body bytes.Buffer

	mw := multipart.NewWriter(&body)

	metaPart, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"application/json; charset=UTF-8"},
	})

	if err != nil {
		return "", "", fmt.Errorf("create metadata part: %w", err)
	}

	if err := json.NewEncoder(metaPart).Encode(meta); err != nil {
		return "", "", fmt.Errorf("encode metadata: %w", err)
	}

	filePart, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"image/png"},
	})

	if err != nil {
		return "", "", fmt.Errorf("create file part: %w", err)
	}

	if _, err := filePart.Write(content); err != nil {
		return "", "", fmt.Errorf("write file part: %w", err)
	}

	if err := mw.Close(); err != nil {
		return "", "", fmt.Errorf("finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, driveUploadURL, &body)

	if err != nil {
		return "", "", fmt.Errorf("create upload request: %w", err)
	}

	req.Header.Set("Content-Type", fmt.Sprintf("multipart/related; boundary=%s", mw.Boundary()))

	resp, err := p.client.Do(req)

	if err != nil {
		return "", "", fmt.Errorf("upload to drive: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", "", fmt.Errorf("drive upload failed: status %d: %s", resp.StatusCode, msg)
	}

	var uploaded struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return "", "", fmt.Errorf("decode upload response: %w", err)
	}

	return uploaded.ID, uploaded.Name, nil
}

func (p *DrivePublisher) shareWithAnyone(ctx context.Context, fileID string) error {
	perm, err := json.Marshal(map[string]string{
		"role": "reader",
		"type": "anyone",
	})

	if err != nil {
		return fmt.Errorf("encode permission: %w", err)
	}

	url := fmt.Sprintf("%s/%s/permissions", driveFilesURL, fileID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(perm))

	if err != nil {
		return fmt.Errorf("create permission request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)

	if err != nil {
		return fmt.Errorf("share drive file: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("drive permission failed: status %d: %s", resp.StatusCode, msg)
	}

	return nil
}
