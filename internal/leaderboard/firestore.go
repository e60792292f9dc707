package leaderboard

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const firestoreCollection = "leaderboard"

// Firestore keeps one document per username in the leaderboard collection.
type Firestore struct {
	client *firestore.Client
	logger *zap.Logger
}

// OpenFirestore connects through the Firebase Admin SDK. An empty
// credentialsPath uses application default credentials, or the emulator when
// FIRESTORE_EMULATOR_HOST is set.
func OpenFirestore(ctx context.Context, projectID, credentialsPath string, logger *zap.Logger) (*Firestore, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}
	logger.Info("Firestore leaderboard ready", zap.String("project", projectID))
	return &Firestore{client: client, logger: logger}, nil
}

func (f *Firestore) doc(username string) *firestore.DocumentRef {
	return f.client.Collection(firestoreCollection).Doc(username)
}

func (f *Firestore) UpsertBestScore(ctx context.Context, username, deviceID string, score int) (int, error) {
	ref := f.doc(username)
	var best int
	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		exists := err == nil
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}

		data := map[string]any{
			"username":  username,
			"deviceId":  deviceID,
			"updatedAt": firestore.ServerTimestamp,
		}
		best = score
		if exists {
			var prev Entry
			if err := snap.DataTo(&prev); err != nil {
				return err
			}
			best = max(prev.Score, score)
		} else {
			data["createdAt"] = firestore.ServerTimestamp
		}
		data["score"] = best
		return tx.Set(ref, data, firestore.MergeAll)
	})
	if err != nil {
		return 0, fmt.Errorf("upserting score: %w", err)
	}
	return best, nil
}

func (f *Firestore) TopScores(ctx context.Context, limit int) ([]Entry, error) {
	docs, err := f.client.Collection(firestoreCollection).
		OrderBy("score", firestore.Desc).
		Limit(normalizeLimit(limit)).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("querying top scores: %w", err)
	}
	out := make([]Entry, 0, len(docs))
	for _, d := range docs {
		var e Entry
		if err := d.DataTo(&e); err != nil {
			f.logger.Warn("Skipping malformed leaderboard entry", zap.String("id", d.Ref.ID), zap.Error(err))
			continue
		}
		if e.Username == "" {
			e.Username = d.Ref.ID
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *Firestore) Rank(ctx context.Context, score int) (int, error) {
	docs, err := f.client.Collection(firestoreCollection).
		Where("score", ">", score).
		Documents(ctx).GetAll()
	if err != nil {
		return 0, fmt.Errorf("counting scores: %w", err)
	}
	return len(docs) + 1, nil
}

func (f *Firestore) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := f.doc(username).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking username: %w", err)
	}
	return true, nil
}

func (f *Firestore) BestScore(ctx context.Context, username string) (int, error) {
	snap, err := f.doc(username).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("getting score: %w", err)
	}
	var e Entry
	if err := snap.DataTo(&e); err != nil {
		return 0, fmt.Errorf("decoding entry: %w", err)
	}
	return e.Score, nil
}

func (f *Firestore) Close() error {
	return f.client.Close()
}
