// internal/app/bootstrap/seed.go
package bootstrap

import (
	"context"
	"errors"

	librarystore "github.com/dalemusser/lessondesk/internal/app/store/library"
	"github.com/dalemusser/lessondesk/internal/app/system/timeouts"
	"github.com/dalemusser/lessondesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// starterResources is the content a fresh deployment gets so the picker is
// not empty on first use. Real libraries replace these through the store.
var starterResources = []models.Resource{
	{
		Title:       "Fractions on a Number Line",
		URL:         "https://www.mathsisfun.com/numbers/fractions-match-line.html",
		Description: "Interactive practice placing fractions on a number line.",
		Type:        models.ResourceTypeInteractive,
		Subject:     "Mathematics",
		Stage:       models.StagePrimary,
		Tags:        []string{"fractions", "number-line"},
	},
	{
		Title:              "Photosynthesis Explained",
		URL:                "https://www.khanacademy.org/science/biology/photosynthesis-in-plants",
		Description:        "Video series introducing photosynthesis.",
		Type:               models.ResourceTypeVideo,
		Subject:            "Science",
		Stage:              models.StageMiddle,
		Tags:               []string{"biology", "plants"},
		InstructionalNotes: "Watch the first two videos before the lab session.",
	},
	{
		Title:       "Primary Sources: The Industrial Revolution",
		URL:         "https://www.loc.gov/classroom-materials/industrial-revolution-in-the-united-states/",
		Description: "Library of Congress primary source set with teacher guide.",
		Type:        models.ResourceTypeReference,
		Subject:     "History",
		Stage:       models.StageSecondary,
		Tags:        []string{"primary-sources", "industrial-revolution"},
	},
	{
		Title:       "Phonics Sound Wall Cards",
		URL:         "https://www.readingrockets.org/topics/phonics-and-decoding",
		Description: "Printable sound wall cards and decoding strategies.",
		Type:        models.ResourceTypeWorksheet,
		Subject:     "English",
		Stage:       models.StageEarlyYears,
		Tags:        []string{"phonics", "printable"},
	},
	{
		Title:       "Projectile Motion Simulator",
		URL:         "https://phet.colorado.edu/en/simulations/projectile-motion",
		Description: "PhET simulation for exploring projectile motion variables.",
		Type:        models.ResourceTypeSimulation,
		Subject:     "Physics",
		Stage:       models.StageSenior,
		Tags:        []string{"physics", "simulation"},
	},
}

// seedLibrary inserts the starter set when the resources collection is
// empty. Duplicate titles are skipped so a partially seeded library is
// completed rather than erroring.
func seedLibrary(ctx context.Context, deps DBDeps, logger *zap.Logger) error {
	countCtx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	n, err := deps.MongoDatabase.Collection("resources").CountDocuments(countCtx, bson.M{})
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	store := librarystore.New(deps.MongoDatabase)
	seeded := 0
	for _, r := range starterResources {
		if _, err := store.Create(ctx, r); err != nil {
			if errors.Is(err, librarystore.ErrDuplicateTitle) {
				continue
			}
			return err
		}
		seeded++
	}

	logger.Info("seeded starter resources", zap.Int("count", seeded))
	return nil
}
