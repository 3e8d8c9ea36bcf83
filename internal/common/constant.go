package common

// ImagesBucket is the object store bucket holding personal uploads and
// scraped board images.
const ImagesBucket = "images"

// PersistKey is the namespaced key the recent boards list is stored under.
const PersistKey = "fashion-finder-storage"

// SessionKey is the metadata key holding the serialized auth session.
const SessionKey = "auth-session"

// MaxRecentBoards caps the recent boards list.
const MaxRecentBoards = 10

// DefaultMatchLimit is the number of ranked matches requested by default.
const DefaultMatchLimit = 5
