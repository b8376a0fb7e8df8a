package connection

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go"
	"google.golang.org/api/option"

	"taskmanager/config"
)

// Firebase holds the clients opened from one service account.
type Firebase struct {
	Firestore  *firestore.Client
	Bucket     *storage.BucketHandle
	BucketName string
}

func FBConnection(ctx context.Context, cfg config.Config) (*Firebase, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{
		StorageBucket: cfg.FirebaseStorageBucket,
	}, option.WithCredentialsFile(cfg.FirebaseCredentials))
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("get firestore client: %w", err)
	}

	storageClient, err := app.Storage(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("get storage client: %w", err)
	}
	bucket, err := storageClient.Bucket(cfg.FirebaseStorageBucket)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("open bucket %s: %w", cfg.FirebaseStorageBucket, err)
	}

	slog.Info("firestore connection successful", "bucket", cfg.FirebaseStorageBucket)
	return &Firebase{Firestore: client, Bucket: bucket, BucketName: cfg.FirebaseStorageBucket}, nil
}

func (f *Firebase) Close() error {
	return f.Firestore.Close()
}
