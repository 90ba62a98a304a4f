package posts

import (
	"github.com/brianvoe/gofakeit/v6"
)

// FakePosts builds n posts with embedded authors, a sentence title and a
// paragraph of content. Used to seed stores for development and tests.
func FakePosts(faker *gofakeit.Faker, n int) []*BlogPost {
	fakes := make([]*BlogPost, 0, n)
	for i := 0; i < n; i++ {
		content := faker.Paragraph(1, 3, 12, " ")
		fakes = append(fakes, &BlogPost{
			Author: &EmbeddedAuthor{
				FirstName: faker.FirstName(),
				LastName:  faker.LastName(),
			},
			Title:   faker.Sentence(5),
			Content: &content,
		})
	}
	return fakes
}
