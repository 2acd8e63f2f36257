package handler

import (
	"bytes"

	"github.com/gofiber/fiber/v2"

	"topicshare-go/pkg/analysis"
	"topicshare-go/pkg/export"
	"topicshare-go/pkg/keyword"
)

func writeSummaryCSV(c *fiber.Ctx, report *analysis.Report) error {
	var buf bytes.Buffer
	if err := export.WriteDomainSummary(&buf, report.DomainStats); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return sendCSV(c, "domain_summary.csv", buf.Bytes())
}

func writeSerpCSV(c *fiber.Ctx, report *analysis.Report) error {
	var buf bytes.Buffer
	if err := export.WriteDetailedSerp(&buf, report.Results, analysis.VolumeMap(report.Keywords)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return sendCSV(c, "detailed_serp.csv", buf.Bytes())
}

func writeKeywordCSV(c *fiber.Ctx, keywords []keyword.Keyword) error {
	var buf bytes.Buffer
	if err := export.WriteKeywordList(&buf, keywords); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return sendCSV(c, "keywords.csv", buf.Bytes())
}

func sendCSV(c *fiber.Ctx, filename string, data []byte) error {
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
