package example

// Feature keys of the object detection record layout.
const (
	KeyEncoded  = "image/encoded"
	KeyFilename = "image/filename"
	KeySourceID = "image/source_id"

	KeyYMin = "image/object/bbox/ymin"
	KeyXMin = "image/object/bbox/xmin"
	KeyYMax = "image/object/bbox/ymax"
	KeyXMax = "image/object/bbox/xmax"

	KeyClassLabel = "image/object/class/label"
	KeyClassText  = "image/object/class/text"

	KeyOccluded  = "image/object/occluded"
	KeyTruncated = "image/object/truncated"
	KeyGroupOf   = "image/object/group_of"
	KeyDepiction = "image/object/depiction"
)

// FilenameSuffix is appended to the image id to form image/filename,
// whatever the actual encoding of the image bytes.
const FilenameSuffix = ".jpg"

// AttributeKeys lists the per-box attribute features in output order.
var AttributeKeys = []string{KeyOccluded, KeyTruncated, KeyGroupOf, KeyDepiction}
