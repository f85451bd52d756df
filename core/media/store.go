package media

import (
	"context"
	"fmt"

	"github.com/irsalhamdi/course-listing/database"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

func ReplaceVideos(ctx context.Context, db sqlx.ExtContext, owner Owner, ownerID string, vs []Video) error {
	if err := owner.valid(); err != nil {
		return err
	}

	del := `DELETE FROM ` + owner.videoTable() + ` WHERE owner_id = $1`
	if _, err := database.ExecAffected(ctx, db, del, ownerID); err != nil {
		return fmt.Errorf("clearing videos: %w", err)
	}

	if len(vs) == 0 {
		return nil
	}

	const cols = `(video_id, owner_id, index, title, url, created_at)
	VALUES (:video_id, :owner_id, :index, :title, :url, :created_at)`

	if err := database.NamedExecContext(ctx, db, `INSERT INTO `+owner.videoTable()+` `+cols, vs); err != nil {
		return fmt.Errorf("inserting videos: %w", err)
	}

	return nil
}

func ReplaceMaterials(ctx context.Context, db sqlx.ExtContext, owner Owner, ownerID string, ms []Material) error {
	if err := owner.valid(); err != nil {
		return err
	}

	del := `DELETE FROM ` + owner.materialTable() + ` WHERE owner_id = $1`
	if _, err := database.ExecAffected(ctx, db, del, ownerID); err != nil {
		return fmt.Errorf("clearing materials: %w", err)
	}

	if len(ms) == 0 {
		return nil
	}

	const cols = `(material_id, owner_id, index, name, url, created_at)
	VALUES (:material_id, :owner_id, :index, :name, :url, :created_at)`

	if err := database.NamedExecContext(ctx, db, `INSERT INTO `+owner.materialTable()+` `+cols, ms); err != nil {
		return fmt.Errorf("inserting materials: %w", err)
	}

	return nil
}

func ListVideos(ctx context.Context, db sqlx.ExtContext, owner Owner, ownerID string) ([]Video, error) {
	if err := owner.valid(); err != nil {
		return nil, err
	}

	q := `SELECT * FROM ` + owner.videoTable() + ` WHERE owner_id = $1 ORDER BY index`

	vs := []Video{}
	if err := database.SelectContext(ctx, db, &vs, q, ownerID); err != nil {
		return nil, fmt.Errorf("selecting videos of %s[%s]: %w", owner, ownerID, err)
	}
	return vs, nil
}

func ListMaterials(ctx context.Context, db sqlx.ExtContext, owner Owner, ownerID string) ([]Material, error) {
	if err := owner.valid(); err != nil {
		return nil, err
	}

	q := `SELECT * FROM ` + owner.materialTable() + ` WHERE owner_id = $1 ORDER BY index`

	ms := []Material{}
	if err := database.SelectContext(ctx, db, &ms, q, ownerID); err != nil {
		return nil, fmt.Errorf("selecting materials of %s[%s]: %w", owner, ownerID, err)
	}
	return ms, nil
}

// ListVideosByOwners loads the videos of several parents in one query,
// keyed by owner id and ordered by index.
func ListVideosByOwners(ctx context.Context, db sqlx.ExtContext, owner Owner, ownerIDs []string) (map[string][]Video, error) {
	if err := owner.valid(); err != nil {
		return nil, err
	}

	out := make(map[string][]Video, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return out, nil
	}

	q := `SELECT * FROM ` + owner.videoTable() + ` WHERE owner_id = ANY($1) ORDER BY owner_id, index`

	var vs []Video
	if err := database.SelectContext(ctx, db, &vs, q, pq.Array(ownerIDs)); err != nil {
		return nil, fmt.Errorf("selecting videos of %d %ss: %w", len(ownerIDs), owner, err)
	}
	for _, v := range vs {
		out[v.OwnerID] = append(out[v.OwnerID], v)
	}
	return out, nil
}

func ListMaterialsByOwners(ctx context.Context, db sqlx.ExtContext, owner Owner, ownerIDs []string) (map[string][]Material, error) {
	if err := owner.valid(); err != nil {
		return nil, err
	}

	out := make(map[string][]Material, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return out, nil
	}

	q := `SELECT * FROM ` + owner.materialTable() + ` WHERE owner_id = ANY($1) ORDER BY owner_id, index`

	var ms []Material
	if err := database.SelectContext(ctx, db, &ms, q, pq.Array(ownerIDs)); err != nil {
		return nil, fmt.Errorf("selecting materials of %d %ss: %w", len(ownerIDs), owner, err)
	}
	for _, m := range ms {
		out[m.OwnerID] = append(out[m.OwnerID], m)
	}
	return out, nil
}
