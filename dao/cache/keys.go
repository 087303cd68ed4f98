package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"Shutter/pkg/log"

	"go.uber.org/zap"
)

// Detail keys. One entry per row, deleted on write.
func PhotoKey(id int64) string         { return fmt.Sprintf("photo:%d", id) }
func CollectionKey(id int64) string    { return fmt.Sprintf("collection:%d", id) }
func CategoryKey(id int64) string      { return fmt.Sprintf("category:%d", id) }
func UserKey(id int64) string          { return fmt.Sprintf("user:%d", id) }
func UserDownloadsKey(id int64) string { return fmt.Sprintf("downloads:user:%d", id) }

// UserBriefKey holds the author view embedded in photo, collection and comment items.
func UserBriefKey(id int64) string { return fmt.Sprintf("user:brief:%d", id) }

// Listing namespaces. Listings embed the namespace version in their key, so
// bumping the version orphans every page at once.
const (
	NsTrendingPhotos      = "photos:trending"
	NsTrendingCollections = "collections:trending"
	NsCategories          = "categories"
	NsMostDownloaded      = "downloads:most"
)

func NsPhotoComments(photoID int64) string { return fmt.Sprintf("comments:photo:%d", photoID) }

func versionKey(ns string) string { return "ver:" + ns }

// ListKey builds the current key for one page of a versioned listing.
func ListKey(ctx context.Context, c Cache, ns string, parts ...any) string {
	ver := int64(0)
	raw, found, err := c.Get(ctx, versionKey(ns))
	if err != nil {
		log.L.Warn("cache version", zap.String("ns", ns), zap.Error(err))
	}
	if found {
		ver, _ = strconv.ParseInt(string(raw), 10, 64)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s:v%d", ns, ver)
	for _, p := range parts {
		fmt.Fprintf(&b, ":%v", p)
	}
	return b.String()
}

// Resource names a write path. Each one has a fixed invalidation set.
type Resource string

const (
	PhotoLiked        Resource = "photo_liked"
	PhotoWritten      Resource = "photo_written"
	PhotoCommented    Resource = "photo_commented"
	PhotoDownloaded   Resource = "photo_downloaded"
	UserFollowed      Resource = "user_followed"
	UserWritten       Resource = "user_written"
	CollectionEngaged Resource = "collection_engaged"
	CollectionMembers Resource = "collection_members"
	CollectionWritten Resource = "collection_written"
	CategoryMembers   Resource = "category_members"
	CategoryWritten   Resource = "category_written"
	PhotoTagged       Resource = "photo_tagged"
)

// Target is the row a write touched; Subject is who made it.
type Target struct {
	Subject int64
	Target  int64
}

type InvalidationSet struct {
	Keys     []func(Target) string
	Versions []func(Target) string
}

func subjectKey(f func(int64) string) func(Target) string {
	return func(t Target) string { return f(t.Subject) }
}

func targetKey(f func(int64) string) func(Target) string {
	return func(t Target) string { return f(t.Target) }
}

func ns(name string) func(Target) string {
	return func(Target) string { return name }
}

// Invalidations is the complete map from write path to stale keys.
var Invalidations = map[Resource]InvalidationSet{
	PhotoLiked: {
		Keys:     []func(Target) string{targetKey(PhotoKey)},
		Versions: []func(Target) string{ns(NsTrendingPhotos)},
	},
	PhotoWritten: {
		Keys:     []func(Target) string{targetKey(PhotoKey)},
		Versions: []func(Target) string{ns(NsTrendingPhotos), ns(NsMostDownloaded), targetKey(NsPhotoComments)},
	},
	PhotoTagged: {
		Keys: []func(Target) string{targetKey(PhotoKey)},
	},
	PhotoCommented: {
		Keys:     []func(Target) string{targetKey(PhotoKey)},
		Versions: []func(Target) string{targetKey(NsPhotoComments)},
	},
	PhotoDownloaded: {
		Keys:     []func(Target) string{targetKey(PhotoKey), subjectKey(UserDownloadsKey)},
		Versions: []func(Target) string{ns(NsMostDownloaded)},
	},
	UserFollowed: {
		Keys: []func(Target) string{
			subjectKey(UserKey), targetKey(UserKey),
			subjectKey(UserBriefKey), targetKey(UserBriefKey),
		},
	},
	UserWritten: {
		Keys: []func(Target) string{targetKey(UserKey), targetKey(UserBriefKey), targetKey(UserDownloadsKey)},
	},
	CollectionEngaged: {
		Keys:     []func(Target) string{targetKey(CollectionKey)},
		Versions: []func(Target) string{ns(NsTrendingCollections)},
	},
	CollectionMembers: {
		Keys: []func(Target) string{targetKey(CollectionKey)},
	},
	CollectionWritten: {
		Keys:     []func(Target) string{targetKey(CollectionKey)},
		Versions: []func(Target) string{ns(NsTrendingCollections)},
	},
	CategoryMembers: {
		Keys:     []func(Target) string{targetKey(CategoryKey)},
		Versions: []func(Target) string{ns(NsCategories)},
	},
	CategoryWritten: {
		Keys:     []func(Target) string{targetKey(CategoryKey)},
		Versions: []func(Target) string{ns(NsCategories)},
	},
}

// Invalidate applies the set registered for r. Failures are logged only;
// detail entries still expire on their TTL.
func Invalidate(ctx context.Context, c Cache, r Resource, t Target) {
	set, ok := Invalidations[r]
	if !ok {
		log.L.Error("no invalidation set", zap.String("resource", string(r)))
		return
	}
	keys := make([]string, 0, len(set.Keys))
	for _, k := range set.Keys {
		keys = append(keys, k(t))
	}
	if err := c.Del(ctx, keys...); err != nil {
		log.L.Warn("cache del", zap.Strings("keys", keys), zap.Error(err))
	}
	for _, v := range set.Versions {
		name := v(t)
		if _, err := c.Incr(ctx, versionKey(name), 0); err != nil {
			log.L.Warn("cache bump version", zap.String("ns", name), zap.Error(err))
		}
	}
}
