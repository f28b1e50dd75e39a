package config

import "fmt"

type CacheKeyStruct struct {
	prefix string
}

func NewCacheKeyStruct(prefix string) *CacheKeyStruct {
	return &CacheKeyStruct{prefix: prefix}
}

// VideoListKey returns the cache key holding the JSON-encoded video catalogue.
func (r *CacheKeyStruct) VideoListKey() string {
	return fmt.Sprintf("%s:videos:all", r.prefix)
}

// GalleryListKey returns the cache key holding the JSON-encoded gallery.
func (r *CacheKeyStruct) GalleryListKey() string {
	return fmt.Sprintf("%s:gallery:all", r.prefix)
}

// VideoListGenerationKey returns the counter bumped on every video write. A
// list read from the store is only cached if the counter did not move.
func (r *CacheKeyStruct) VideoListGenerationKey() string {
	return fmt.Sprintf("%s:videos:gen", r.prefix)
}

// GalleryListGenerationKey returns the counter bumped on every gallery write.
func (r *CacheKeyStruct) GalleryListGenerationKey() string {
	return fmt.Sprintf("%s:gallery:gen", r.prefix)
}

var CacheKey = NewCacheKeyStruct("music")
