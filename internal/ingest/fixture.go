package ingest

import (
	"context"

	"bookloop/internal/catalog"
)

// FixtureGenerator returns a built-in batch without any network access.
type FixtureGenerator struct {
	Books []catalog.RawBook
}

// NewFixtureGenerator returns a generator over the default offline batch.
func NewFixtureGenerator() *FixtureGenerator {
	books := make([]catalog.RawBook, len(fixtureBooks))
	copy(books, fixtureBooks)
	return &FixtureGenerator{Books: books}
}

func (f *FixtureGenerator) Generate(ctx context.Context) ([]catalog.RawBook, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]catalog.RawBook, len(f.Books))
	copy(out, f.Books)
	return out, nil
}

var fixtureBooks = []catalog.RawBook{
	{Title: "The God of Small Things", Author: "Arundhati Roy", Category: "Fiction", ISBN: "9780812979657",
		Synopsis: "Twins Estha and Rahel piece together the childhood in Ayemenem, Kerala, that was broken by a forbidden love and a single fateful day in 1969."},
	{Title: "Midnight's Children", Author: "Salman Rushdie", Category: "Fiction", ISBN: "9780812976533",
		Synopsis: "Saleem Sinai, born at the stroke of India's independence, discovers he is telepathically linked to the other children born in that hour."},
	{Title: "The White Tiger", Author: "Aravind Adiga", Category: "Fiction", ISBN: "9781416562603",
		Synopsis: "Balram Halwai, a driver from a poor village, narrates his rise to entrepreneur in a darkly comic letter about class and ambition in modern India."},
	{Title: "A Suitable Boy", Author: "Vikram Seth", Category: "Fiction", ISBN: "9780060786526",
		Synopsis: "In the newly independent India of the 1950s, Mrs. Rupa Mehra searches for a suitable husband for her daughter Lata."},
	{Title: "The Palace of Illusions", Author: "Chitra Banerjee Divakaruni", Category: "Mythology", ISBN: "9780307275110",
		Synopsis: "The Mahabharata retold by Panchaali, the fire-born princess who marries the five Pandava brothers and stands at the heart of a great war."},
	{Title: "Wings of Fire", Author: "A. P. J. Abdul Kalam", Category: "Biography", ISBN: "9788173711466",
		Synopsis: "The former President of India recounts his journey from a boat owner's son in Rameswaram to the architect of India's missile programme."},
	{Title: "The Immortals of Meluha", Author: "Amish Tripathi", Category: "Mythology", ISBN: "9789380658742",
		Synopsis: "A Tibetan tribal chief named Shiva is hailed as the prophesied saviour of the Suryavanshi empire of Meluha in this reimagining of the god."},
	{Title: "Sapiens", Author: "Yuval Noah Harari", Category: "History", ISBN: "9780062316097",
		Synopsis: "A sweeping account of how Homo sapiens came to dominate the planet, from the cognitive revolution to the age of capitalism and science."},
	{Title: "Rich Dad Poor Dad", Author: "Robert T. Kiyosaki", Category: "Business", ISBN: "9781612680194",
		Synopsis: "Two father figures with opposite attitudes to money shape the author's lessons on assets, liabilities and financial independence."},
	{Title: "The Alchemist", Author: "Paulo Coelho", Category: "Fiction", ISBN: "9780062315007",
		Synopsis: "Santiago, an Andalusian shepherd, follows a recurring dream to the Egyptian pyramids and learns to listen to his heart along the way."},
	{Title: "India After Gandhi", Author: "Ramachandra Guha", Category: "History", ISBN: "9780060958589",
		Synopsis: "The history of the world's largest democracy from partition to the present, told through its leaders, conflicts and ordinary citizens."},
	{Title: "The Discovery of India", Author: "Jawaharlal Nehru", Category: "History", ISBN: "9780143031031",
		Synopsis: "Written in prison in 1944, Nehru's reflection on India's civilisation, philosophy and history from the Indus Valley to the Raj."},
	{Title: "Train to Pakistan", Author: "Khushwant Singh", Category: "Historical Fiction", ISBN: "9780802142788",
		Synopsis: "In the border village of Mano Majra, the violence of the 1947 partition arrives on a train full of corpses and tests every loyalty."},
	{Title: "Malgudi Days", Author: "R. K. Narayan", Category: "Fiction", ISBN: "9780143039655",
		Synopsis: "Short stories set in the fictional South Indian town of Malgudi, capturing the humour and quiet drama of everyday lives."},
	{Title: "Jaya", Author: "Devdutt Pattanaik", Category: "Mythology", ISBN: "9780143104254",
		Synopsis: "An illustrated retelling of the Mahabharata that weaves in lesser-known folk and regional variations of the epic."},
	{Title: "The Hitchhiker's Guide to the Galaxy", Author: "Douglas Adams", Category: "Sci-Fi", ISBN: "9780345391803",
		Synopsis: "Seconds before Earth is demolished for a hyperspace bypass, Arthur Dent is rescued by his friend Ford Prefect, a researcher for a galactic guidebook."},
	{Title: "Dune", Author: "Frank Herbert", Category: "Sci-Fi", ISBN: "9780441172719",
		Synopsis: "Young Paul Atreides is thrust into the deadly politics of the desert planet Arrakis, the only source of the most valuable substance in the universe."},
	{Title: "Steve Jobs", Author: "Walter Isaacson", Category: "Biography", ISBN: "9781451648539",
		Synopsis: "Based on more than forty interviews with Jobs, the authorised biography of the co-founder of Apple and his relentless pursuit of perfection."},
	{Title: "Atomic Habits", Author: "James Clear", Category: "Business", ISBN: "9780735211292",
		Synopsis: "A practical framework for building good habits and breaking bad ones through tiny changes that compound into remarkable results."},
	{Title: "The Inheritance of Loss", Author: "Kiran Desai", Category: "Fiction", ISBN: "9780802142818",
		Synopsis: "In a crumbling house at the foot of Kanchenjunga, a retired judge, his granddaughter and their cook are caught up in the Gorkhaland insurgency."},
}
