package library

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"
)

// TagThumb specifies which thumbnail to use for AI tagging.
var TagThumb = "Album"

// AutoTag suggests flat tags for an image using AI. Suggestions are plain
// leaf names; merging them into the file's hierarchical tag set is the
// caller's job.
func AutoTag(ctx context.Context, client *genai.Client, model string, i *Image) ([]string, error) {
	thumb := i.Resize[TagThumb].Path
	bs, err := os.ReadFile(thumb)
	if err != nil {
		return nil, err
	}

	prompt := "generate 1-5 comma-separated one-word tags. Here are some example tags: " +
		"bw for black and white photos, family for family photos, friends for friend photos, " +
		"landscape for landscape photos, nature for nature photos, " +
		"bird for bird photos, beach for beach photos, cycling for bicycling photos. " +
		"The tag animal should be included for photos of an animal " +
		"that is unlikely to be a pet. The tag forest should be used for forests, sunrise for sunrises. " +
		"Tags should be a present-tense singular word that a professional photographer would want to " +
		"organize their photo albums with. Use bw for blackandwhite. Do not combine multiple words. " +
		"Use urban for city photos, camping for camping photos, boat for boat photos. " +
		"If you know the location of a photo, add the name of the place, city, or country as a tag. " +
		"If you know the animal genus, add the genus as a tag. Do not use plural words."

	parts := []*genai.Part{
		genai.NewPartFromBytes(bs, "image/jpeg"),
		genai.NewPartFromText(prompt),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := client.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	content := strings.ReplaceAll(resp.Text(), " ", "")
	var tags []string
	for _, t := range strings.Split(content, ",") {
		if t == "" {
			continue
		}
		tags = append(tags, t)
	}

	return tags, nil
}
