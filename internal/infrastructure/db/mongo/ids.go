package mongo

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linkvault/linkvault/internal/core/ports"
)

// ObjectIDs generates section and link ids as ObjectID hex strings, the
// same format the stored documents use.
type ObjectIDs struct{}

var _ ports.IDGenerator = ObjectIDs{}

func (ObjectIDs) NewID() string { return primitive.NewObjectID().Hex() }

func (ObjectIDs) Valid(id string) bool { return primitive.IsValidObjectID(id) }
