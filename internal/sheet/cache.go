package sheet

// Cache maps sheet keys to fully extracted sheets. It never evicts on its
// own: post-sheet eviction is decided by the tab controller, and the home
// sheet cannot be evicted at all.
type Cache struct {
	sheets map[string]Sheet
}

func NewCache() *Cache {
	return &Cache{sheets: make(map[string]Sheet)}
}

func (c *Cache) Get(key string) (Sheet, bool) {
	s, ok := c.sheets[key]
	return s, ok
}

// Put stores a copy of s under s.Key, replacing any previous entry.
func (c *Cache) Put(s Sheet) {
	if s.Key == "" {
		return
	}
	c.sheets[s.Key] = s.clone()
}

// Evict removes a non-home sheet. It reports whether an entry was removed.
func (c *Cache) Evict(key string) bool {
	if key == HomeKey {
		return false
	}
	if _, ok := c.sheets[key]; !ok {
		return false
	}
	delete(c.sheets, key)
	return true
}

// Reset drops every sheet except home.
func (c *Cache) Reset() {
	for key := range c.sheets {
		if key != HomeKey {
			delete(c.sheets, key)
		}
	}
}

func (c *Cache) Has(key string) bool {
	_, ok := c.sheets[key]
	return ok
}

func (c *Cache) Len() int {
	return len(c.sheets)
}

// PostCount returns the number of cached post sheets.
func (c *Cache) PostCount() int {
	n := 0
	for key := range c.sheets {
		if IsPostKey(key) {
			n++
		}
	}
	return n
}
