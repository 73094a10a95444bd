package controllers

import (
	"secretshare-backend/database"
	"secretshare-backend/middlewares"
	"secretshare-backend/models"
	"secretshare-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// memberRole looks up the caller's role in an organization; empty string
// means not a member.
func memberRole(orgID, uid string) string {
	var m models.OrganizationMember
	err := database.DB.Where("organization_id = ? AND user_id = ?", orgID, uid).First(&m).Error
	if err != nil {
		return ""
	}
	return m.Role
}

// CreateOrganization creates an organization and makes the caller its owner.
func CreateOrganization(c *fiber.Ctx) error {
	var in models.CreateOrganizationInput
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	org := models.Organization{
		Name: in.Name,
		Slug: utils.Slugify(in.Name),
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&org).Error; err != nil {
			return err
		}
		member := models.OrganizationMember{
			OrganizationId: org.Id,
			UserId:         userID(c),
			Role:           models.OrgRoleOwner,
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		if err == gorm.ErrDuplicatedKey {
			c.Status(fiber.StatusConflict)
			return c.JSON(fiber.Map{
				"message": "an organization with that name already exists",
			})
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(org)
}

// ListOrganizations returns the organizations the caller belongs to.
func ListOrganizations(c *fiber.Ctx) error {
	var orgs []models.Organization
	err := database.DB.
		Joins("JOIN organization_members ON organization_members.organization_id = organizations.id").
		Where("organization_members.user_id = ?", userID(c)).
		Order("organizations.created_at DESC").
		Find(&orgs).Error
	if err != nil {
		return err
	}
	return c.JSON(orgs)
}

// GetOrganization returns one organization, members only.
func GetOrganization(c *fiber.Ctx) error {
	orgID := c.Params("id")
	if memberRole(orgID, userID(c)) == "" {
		c.Status(fiber.StatusForbidden)
		return c.JSON(fiber.Map{
			"message": "not a member of this organization",
		})
	}

	var org models.Organization
	if err := database.DB.Where("id = ?", orgID).First(&org).Error; err != nil {
		c.Status(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"message": "organization not found",
		})
	}
	return c.JSON(org)
}

// DeleteOrganization removes an organization and its memberships, owners only.
// Secrets attributed to the organization survive; they just lose the grouping.
func DeleteOrganization(c *fiber.Ctx) error {
	orgID := c.Params("id")
	if memberRole(orgID, userID(c)) != models.OrgRoleOwner {
		c.Status(fiber.StatusForbidden)
		return c.JSON(fiber.Map{
			"message": "only owners may delete an organization",
		})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("organization_id = ?", orgID).Delete(&models.OrganizationMember{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", orgID).Delete(&models.Organization{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.Status(fiber.StatusNotFound)
			return c.JSON(fiber.Map{
				"message": "organization not found",
			})
		}
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddOrganizationMember adds a user; owners and admins only. Only owners may
// grant the owner role.
func AddOrganizationMember(c *fiber.Ctx) error {
	orgID := c.Params("id")
	role := memberRole(orgID, userID(c))
	if role != models.OrgRoleOwner && role != models.OrgRoleAdmin {
		c.Status(fiber.StatusForbidden)
		return c.JSON(fiber.Map{
			"message": "insufficient role",
		})
	}

	var in models.AddMemberInput
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	if in.Role == models.OrgRoleOwner && role != models.OrgRoleOwner {
		c.Status(fiber.StatusForbidden)
		return c.JSON(fiber.Map{
			"message": "only owners may grant the owner role",
		})
	}

	member := models.OrganizationMember{
		OrganizationId: orgID,
		UserId:         in.UserId,
		Role:           in.Role,
	}
	if err := database.DB.Create(&member).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			c.Status(fiber.StatusConflict)
			return c.JSON(fiber.Map{
				"message": "user is already a member",
			})
		}
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(member)
}

// ListOrganizationMembers lists members, visible to any member.
func ListOrganizationMembers(c *fiber.Ctx) error {
	orgID := c.Params("id")
	if memberRole(orgID, userID(c)) == "" {
		c.Status(fiber.StatusForbidden)
		return c.JSON(fiber.Map{
			"message": "not a member of this organization",
		})
	}

	var members []models.OrganizationMember
	if err := database.DB.Where("organization_id = ?", orgID).Order("created_at ASC").Find(&members).Error; err != nil {
		return err
	}
	return c.JSON(members)
}

// RemoveOrganizationMember removes a member; owners and admins only. The
// last owner cannot be removed.
func RemoveOrganizationMember(c *fiber.Ctx) error {
	orgID := c.Params("id")
	role := memberRole(orgID, userID(c))
	if role != models.OrgRoleOwner && role != models.OrgRoleAdmin {
		c.Status(fiber.StatusForbidden)
		return c.JSON(fiber.Map{
			"message": "insufficient role",
		})
	}

	var target models.OrganizationMember
	err := database.DB.Where("organization_id = ? AND user_id = ?", orgID, c.Params("userId")).First(&target).Error
	if err != nil {
		c.Status(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"message": "member not found",
		})
	}
	if target.Role == models.OrgRoleOwner {
		var owners int64
		database.DB.Model(&models.OrganizationMember{}).
			Where("organization_id = ? AND role = ?", orgID, models.OrgRoleOwner).
			Count(&owners)
		if owners <= 1 {
			c.Status(fiber.StatusConflict)
			return c.JSON(fiber.Map{
				"message": "cannot remove the last owner",
			})
		}
	}

	if err := database.DB.Delete(&target).Error; err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
