// Package images реализует хранилище изображений документов DNI поверх MinIO.
//
// Ключ объекта строится из DNI владельца и стороны документа, поэтому повторная
// загрузка заменяет изображение на месте. Сбои ввода-вывода оборачиваются в
// models.ErrIO с сохранением исходной причины.
package images

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"

	"github.com/magabrotheeeer/chessclub-membership/internal/models"
)

// Стороны документа DNI.
const (
	SideFront = "front"
	SideBack  = "back"
)

// minioAPI выделяет используемые методы клиента MinIO, чтобы тесты
// могли подменить его без реального сервера.
type minioAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

type minioClientWrapper struct{ c *minio.Client }

func (w minioClientWrapper) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return w.c.BucketExists(ctx, bucketName)
}

func (w minioClientWrapper) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return w.c.MakeBucket(ctx, bucketName, opts)
}

func (w minioClientWrapper) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return w.c.PutObject(ctx, bucketName, objectName, reader, objectSize, opts)
}

func (w minioClientWrapper) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	return w.c.GetObject(ctx, bucketName, objectName, opts)
}

func (w minioClientWrapper) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	return w.c.RemoveObject(ctx, bucketName, objectName, opts)
}

// Store хранит изображения DNI в одном бакете MinIO.
type Store struct {
	api    minioAPI
	bucket string
}

// NewStore создаёт Store поверх готового клиента MinIO и убеждается,
// что бакет существует.
func NewStore(ctx context.Context, client *minio.Client, bucket string) (*Store, error) {
	return newStoreWithAPI(ctx, minioClientWrapper{c: client}, bucket)
}

func newStoreWithAPI(ctx context.Context, api minioAPI, bucket string) (*Store, error) {
	const op = "images.NewStore"
	s := &Store{api: api, bucket: bucket}

	exists, err := api.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, models.ErrIO, err)
	}
	if !exists {
		if err = api.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("%s: %w: %w", op, models.ErrIO, err)
		}
	}
	return s, nil
}

// SaveImage сохраняет изображение стороны документа и возвращает ключ объекта.
func (s *Store) SaveImage(ctx context.Context, data []byte, side, userDni string) (string, error) {
	const op = "images.SaveImage"
	key := fmt.Sprintf("%s/%s.jpg", userDni, side)
	_, err := s.api.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "image/jpeg",
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", op, models.ErrIO, err)
	}
	return key, nil
}

// LoadImage читает изображение по ключу объекта.
func (s *Store) LoadImage(ctx context.Context, key string) ([]byte, error) {
	const op = "images.LoadImage"
	obj, err := s.api.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, models.ErrIO, err)
	}
	defer func() {
		_ = obj.Close()
	}()
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, models.ErrIO, err)
	}
	return data, nil
}

// RemoveImage удаляет изображение по ключу объекта.
func (s *Store) RemoveImage(ctx context.Context, key string) error {
	const op = "images.RemoveImage"
	if err := s.api.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%s: %w: %w", op, models.ErrIO, err)
	}
	return nil
}
