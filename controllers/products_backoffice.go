package controllers

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/tealeg/xlsx"

	"laptopshop/catalog"
	"laptopshop/models"
	"laptopshop/upload"
)

func (h *Handler) CreateLaptop(c *fiber.Ctx) error {
	var in models.LaptopInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := catalog.ValidateInput(in); err != nil {
		return respondError(c, err)
	}

	laptop, err := h.Catalog.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	log.Infow("laptop created", "id", laptop.ID, "name", laptop.Name)
	return c.Status(fiber.StatusCreated).JSON(laptop)
}

// UpdateLaptop applies only the fields present in the body.
func (h *Handler) UpdateLaptop(c *fiber.Ctx) error {
	id, err := laptopID(c)
	if err != nil {
		return respondError(c, err)
	}
	var patch models.LaptopPatch
	if err := c.BodyParser(&patch); err != nil {
		return badBody(c)
	}
	if err := catalog.ValidatePatch(patch); err != nil {
		return respondError(c, err)
	}

	laptop, err := h.Catalog.Update(c.UserContext(), id, patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(laptop)
}

func (h *Handler) DeleteLaptop(c *fiber.Ctx) error {
	id, err := laptopID(c)
	if err != nil {
		return respondError(c, err)
	}
	deleted, err := h.Catalog.Delete(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Laptop not found"})
	}
	log.Infow("laptop deleted", "id", id)
	return c.JSON(fiber.Map{"message": "Laptop deleted successfully", "id": id})
}

// ConfirmDeleteLaptop is the admin panel delete; it requires ?confirm=true.
func (h *Handler) ConfirmDeleteLaptop(c *fiber.Ctx) error {
	if !c.QueryBool("confirm") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Deletion must be confirmed with confirm=true"})
	}
	return h.DeleteLaptop(c)
}

// UploadImages appends multipart "images" files to a laptop as data URIs.
func (h *Handler) UploadImages(c *fiber.Ctx) error {
	id, err := laptopID(c)
	if err != nil {
		return respondError(c, err)
	}
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Expected multipart form with images"})
	}

	ctx := c.UserContext()
	laptop, err := h.Catalog.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	images, err := h.Uploads.Append(laptop.Images, upload.FromMultipart(form.File["images"]))
	if err != nil {
		return respondError(c, err)
	}

	laptop, err = h.Catalog.Update(ctx, id, models.LaptopPatch{Images: &images})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(laptop)
}

func (h *Handler) RemoveImage(c *fiber.Ctx) error {
	id, err := laptopID(c)
	if err != nil {
		return respondError(c, err)
	}
	index, err := c.ParamsInt("index")
	if err != nil {
		return respondError(c, upload.ErrBadIndex)
	}

	ctx := c.UserContext()
	laptop, err := h.Catalog.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	images, err := upload.RemoveAt(laptop.Images, index)
	if err != nil {
		return respondError(c, err)
	}
	laptop, err = h.Catalog.Update(ctx, id, models.LaptopPatch{Images: &images})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(laptop)
}

// ExportLaptops downloads the catalog as an xlsx sheet.
func (h *Handler) ExportLaptops(c *fiber.Ctx) error {
	laptops, err := h.Catalog.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Laptops")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create Excel sheet"})
	}

	headers := []string{
		"ID", "Name", "Brand", "Price", "OriginalPrice", "Rating", "Reviews",
		"Badge", "InStock", "Specs", "Images", "CreatedAt", "UpdatedAt",
	}
	headerRow := sheet.AddRow()
	for _, hd := range headers {
		headerRow.AddCell().SetValue(hd)
	}

	for _, l := range laptops {
		row := sheet.AddRow()
		row.AddCell().SetValue(l.ID)
		row.AddCell().SetValue(l.Name)
		row.AddCell().SetValue(l.Brand)
		row.AddCell().SetValue(l.Price)
		row.AddCell().SetValue(deref(l.OriginalPrice))
		row.AddCell().SetValue(l.Rating)
		row.AddCell().SetValue(l.Reviews)
		row.AddCell().SetValue(l.Badge)
		row.AddCell().SetValue(strconv.FormatBool(l.InStock))
		row.AddCell().SetValue(strings.Join(l.Specs, "; "))
		// data URIs are too large for a cell
		row.AddCell().SetValue(len(l.Images))
		row.AddCell().SetValue(l.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetValue(l.UpdatedAt.Format("2006-01-02 15:04:05"))
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to write Excel file"})
	}

	c.Set("Content-Disposition", "attachment; filename=laptops.xlsx")
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return c.Send(buf.Bytes())
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
