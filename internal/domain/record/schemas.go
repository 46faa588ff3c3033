package record

// Image field names.
const (
	ImageMongoID       = "_id"
	ImageID            = "id"
	ImageExtension     = "extension"
	ImageType          = "type"
	ImageProductIn     = "product_in"
	ImageHumanIn       = "human_in"
	ImageInstitutional = "institutional"
	ImageFormat        = "format"
	ImageCredits       = "credits"
	ImageLimitedUsage  = "limited_usage"
	ImageCopyright     = "copyright"
	ImageUsageEnd      = "usage_end"
	ImageTags          = "tags"
)

// User field names.
const (
	UserMongoID  = "_id"
	UserName     = "name"
	UserEmail    = "email"
	UserPassword = "password"
	UserGroup    = "group"
)

// ImageSpec is the shape every image record has after normalization.
var ImageSpec = MustSpec("image",
	Field{Name: ImageMongoID, Kind: String},
	Field{Name: ImageID, Kind: String}, // derived from the content hash
	Field{Name: ImageExtension, Kind: String},
	Field{Name: ImageType, Kind: String},
	Field{Name: ImageProductIn, Kind: Bool},
	Field{Name: ImageHumanIn, Kind: Bool},
	Field{Name: ImageInstitutional, Kind: Bool},
	Field{Name: ImageFormat, Kind: Bool}, // true = vertical
	Field{Name: ImageCredits, Kind: String},
	Field{Name: ImageLimitedUsage, Kind: Bool},
	Field{Name: ImageCopyright, Kind: Bool},
	Field{Name: ImageUsageEnd, Kind: Int}, // unix seconds
	Field{Name: ImageTags, Kind: List},
)

// UserSpec is the shape every user record has after normalization.
var UserSpec = MustSpec("user",
	Field{Name: UserMongoID, Kind: String},
	Field{Name: UserName, Kind: String},
	Field{Name: UserEmail, Kind: String},
	Field{Name: UserPassword, Kind: String}, // salted sha256, hex
	Field{Name: UserGroup, Kind: String},
)
