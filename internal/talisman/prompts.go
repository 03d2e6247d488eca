package talisman

import "fmt"

// DesignPrompt asks for a one-line mascot description.
func DesignPrompt(wish, mbti string) string {
	return fmt.Sprintf(`Analyze the user's MBTI (%s) and Wish (%q).
Select a CUTE ANIMAL (avoiding common ones if possible).
Example: INFP->Rabbit, ENTJ->Lion, ENFP->Quokka.
Describe the character performing an action related to %q.
Output format: "A [Adjective] [Animal] [Action]"`, mbti, wish, wish)
}

// StickerPrompt is sent to the image model.
func StickerPrompt(desc string) string {
	return fmt.Sprintf(`Role: Kawaii Illustrator. Goal: Create a cute 2D sticker.
Subject: %s.
Style: Sanrio-style, pastel flat colors, simple vector art.
Constraint: NO TEXT. White background.`, desc)
}

// PixelArtPrompt asks the text model for rect-only SVG.
func PixelArtPrompt(desc string) string {
	return fmt.Sprintf(`Role: Expert Pixel Artist.
Task: Create a CUTE, 8-BIT PIXEL ART SVG code for: %q.

IMPORTANT INSTRUCTIONS:
1. Use ONLY <rect> elements to create a pixel art look. Do NOT use <path>, <circle>, or <ellipse>.
2. The art should look like a retro game sprite (e.g., Pokemon, Tamagotchi style).
3. Grid size: roughly 24x24 or 32x32 pixels.
4. Colors: Vibrant pastel colors + Black outline for contrast.
5. Background: Transparent or simple solid color.
6. ViewBox: "0 0 512 512" (scale up the pixels).
7. Return ONLY the raw <svg> string. No markdown. No explanations.`, desc)
}
