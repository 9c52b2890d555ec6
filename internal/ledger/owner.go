package ledger

import (
	"fmt"

	"github.com/julianLagraba/fin-pro/internal/models"
)

// Owner says who a category belongs to: the system (visible to everyone,
// never deletable) or exactly one user.
type Owner struct {
	system bool
	userID uint
}

func SystemOwner() Owner { return Owner{system: true} }

func UserOwner(id uint) Owner { return Owner{userID: id} }

// OwnerOf maps the nullable user_id column onto an Owner.
func OwnerOf(c *models.Category) Owner {
	if c.UserID == nil {
		return SystemOwner()
	}
	return UserOwner(*c.UserID)
}

func (o Owner) IsSystem() bool { return o.system }

// UserID returns the owning user, or false for system ownership.
func (o Owner) UserID() (uint, bool) {
	if o.system {
		return 0, false
	}
	return o.userID, true
}

// VisibleTo reports whether userID can see (and reference) the category.
func (o Owner) VisibleTo(userID uint) bool {
	return o.system || o.userID == userID
}

// column returns the value stored in categories.user_id.
func (o Owner) column() *uint {
	if o.system {
		return nil
	}
	id := o.userID
	return &id
}

func (o Owner) String() string {
	if o.system {
		return "system"
	}
	return fmt.Sprintf("user:%d", o.userID)
}
