package project

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/jakoblorz/go-codestart/internal/catalog"
	"github.com/jakoblorz/go-codestart/internal/logger"
	"github.com/jakoblorz/go-codestart/internal/models"
	"github.com/jakoblorz/go-codestart/internal/storage"
	"github.com/stretchr/testify/require"
)

func testIndex() *catalog.Index {
	return catalog.NewIndex([]models.Extension{
		{ID: "io.quarkus:quarkus-arc", Name: "ArC", Order: 0},
		{ID: "io.quarkus:quarkus-rest", Name: "REST", Order: 1},
		{ID: "org.acme:arc", Name: "Acme Arc", Order: 2},
	})
}

func TestFromQuery_Defaults(t *testing.T) {
	p := FromQuery(url.Values{})
	require.True(t, models.NewDefaultProject().Equal(p))
}

func TestFromQuery_PerFieldFallback(t *testing.T) {
	values := ParseQuery("?g=com.example&a=Not Valid&v=2.0.0&b=gradle&j=1.8&nc=maybe&e=arc&e=rest,kafka&S=io.quarkus.platform:3.8&p=/hello")

	p := FromQuery(values)
	require.Equal(t, "com.example", p.GroupID)
	require.Equal(t, models.DefaultArtifactID, p.ArtifactID)
	require.Equal(t, "2.0.0", p.Version)
	require.Equal(t, models.BuildToolGradle, p.BuildTool)
	require.Equal(t, "1.8", p.JavaVersion)
	require.False(t, p.NoCode)
	require.Equal(t, models.ExtensionSet{"arc", "rest", "kafka"}, p.Extensions)
	require.Equal(t, "io.quarkus.platform:3.8", p.StreamKey)
	require.Equal(t, "/hello", p.Path)
	require.Nil(t, p.GitHub)
}

func TestFromQuery_GitHubIntent(t *testing.T) {
	p := FromQuery(ParseQuery("github=true&code=abc&state=xyz&streamKey=io.quarkus.platform:3.2"))

	require.Equal(t, &models.GitHubIntent{Code: "abc", State: "xyz"}, p.GitHub)
	require.Equal(t, "io.quarkus.platform:3.2", p.StreamKey)
}

func TestQuery_RoundTrip(t *testing.T) {
	tests := []string{
		"",
		"a=my-app&e=io.quarkus%3Aquarkus-arc&g=com.example",
		"b=GRADLE_KOTLIN_DSL&j=21&nc=true&po=true&S=io.quarkus.platform%3A3.8",
		"c=com.example.Greeting&e=arc&e=rest&p=%2Fgreeting&v=0.1",
		"code=abc&github=true&state=xyz",
	}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			values := ParseQuery(raw)
			require.Equal(t, values, ToQuery(FromQuery(values)))
		})
	}
}

func TestQuery_StateRoundTrip(t *testing.T) {
	p := Apply(models.NewDefaultProject(),
		WithGroupID("com.example"),
		WithArtifactID("demo"),
		WithBuildTool(models.BuildToolGradle),
		WithJavaVersion("21"),
		WithNoCode(true),
		WithStream("io.quarkus.platform:3.8"),
		WithExtensions("io.quarkus:quarkus-rest", "io.quarkus:quarkus-arc"),
	)

	again := FromQuery(ParseQuery(ToQuery(p).Encode()))
	require.True(t, p.Equal(again))
}

func TestToQuery_OmitsDefaults(t *testing.T) {
	require.Empty(t, ToQuery(models.NewDefaultProject()))
}

func TestShareQuery_ShortensUnambiguousIDs(t *testing.T) {
	p := Apply(models.NewDefaultProject(),
		WithExtensions("io.quarkus:quarkus-arc", "io.quarkus:quarkus-rest", "org.acme:arc"))

	values := ShareQuery(p, testIndex())
	require.Equal(t, []string{"arc", "rest", "org.acme:arc"}, values[KeyExtensions])

	res := testIndex().Map(values[KeyExtensions])
	require.ElementsMatch(t, p.Extensions, res.IDs())

	require.Equal(t, []string(p.Extensions.Sorted()), ShareQuery(p, nil)[KeyExtensions])
}

func TestURL(t *testing.T) {
	p := Apply(models.NewDefaultProject(), WithArtifactID("demo"), WithExtensions("io.quarkus:quarkus-rest"))

	require.Equal(t, "https://code.quarkus.io/?a=demo&e=rest", URL("https://code.quarkus.io", p, testIndex()))
	require.Equal(t, "https://code.quarkus.io/", URL("https://code.quarkus.io/", models.NewDefaultProject(), nil))
}

func TestValidate(t *testing.T) {
	require.Empty(t, Validate(models.NewDefaultProject()))

	p := Apply(models.NewDefaultProject(),
		WithGroupID("1bad"),
		WithArtifactID("Upper"),
		WithVersion(""),
		WithJavaVersion("seventeen"),
	)
	p.Path = "no-slash"
	p.ClassName = "com.example.1Bad"

	var fields []string
	for _, fe := range Validate(p) {
		fields = append(fields, fe.Field)
	}
	require.Equal(t, []string{"groupId", "artifactId", "version", "className", "path", "javaVersion"}, fields)
	require.False(t, IsValid(p))
}

func TestNormalizeJavaVersion(t *testing.T) {
	require.Equal(t, "8", NormalizeJavaVersion("1.8"))
	require.Equal(t, "21", NormalizeJavaVersion("21.0.2"))
	require.Equal(t, "17", NormalizeJavaVersion("17"))
	require.Equal(t, "abc", NormalizeJavaVersion("abc"))
}

func TestApply_DoesNotMutate(t *testing.T) {
	base := models.NewDefaultProject()

	next := Apply(base, ToggleExtension("arc"), WithGroupID("com.example"))
	require.Equal(t, models.ExtensionSet{"arc"}, next.Extensions)
	require.Empty(t, base.Extensions)
	require.Equal(t, models.DefaultGroupID, base.GroupID)

	again := Apply(next, ToggleExtension("arc"))
	require.Empty(t, again.Extensions)
}

func TestStored_SaveLoad(t *testing.T) {
	store := storage.NewMemoryStore()

	p := Apply(models.NewDefaultProject(),
		WithGroupID("com.example"),
		WithExtensions("io.quarkus:quarkus-arc"),
		WithStream("io.quarkus.platform:3.8"),
		WithNoCode(true),
	)
	require.NoError(t, SaveStored(store, p))

	raw, ok, err := store.Get(StoreKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"groupId":"com.example","noCode":true,"extensions":["io.quarkus:quarkus-arc"]}`, string(raw))

	loaded, err := LoadStored(store)
	require.NoError(t, err)
	require.Equal(t, "com.example", loaded.GroupID)
	require.True(t, loaded.NoCode)
	require.Empty(t, loaded.StreamKey, "stream is not remembered")
	require.Equal(t, models.ExtensionSet{"io.quarkus:quarkus-arc"}, loaded.Extensions)
}

func TestStored_Malformed(t *testing.T) {
	tests := []string{
		`not json`,
		`{"groupId": 5}`,
		`{"buildTool": "ANT"}`,
		`{"artifactId": "Bad Artifact"}`,
		`{"unexpected": true}`,
		`{"extensions": "arc"}`,
	}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			store := storage.NewMemoryStore()
			require.NoError(t, store.Set(StoreKey, []byte(raw)))

			_, err := LoadStored(store)
			require.ErrorIs(t, err, ErrMalformedRecord)
		})
	}
}

func TestReset(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, SaveStored(store, Apply(models.NewDefaultProject(), WithGroupID("com.example"))))

	p, err := Reset(store)
	require.NoError(t, err)
	require.True(t, models.NewDefaultProject().Equal(p))

	loaded, err := LoadStored(store)
	require.NoError(t, err)
	require.Nil(t, loaded)
}

func TestResolveInitial(t *testing.T) {
	log := logger.NewNop()

	stored := storage.NewMemoryStore()
	require.NoError(t, SaveStored(stored, Apply(models.NewDefaultProject(), WithGroupID("com.stored"))))

	t.Run("query wins", func(t *testing.T) {
		init := ResolveInitial(ParseQuery("g=com.query&extension-search=kafka"), stored, log)
		require.Equal(t, SourceQuery, init.Source)
		require.Equal(t, "com.query", init.Project.GroupID)
		require.Equal(t, "kafka", init.Filter)
	})

	t.Run("store when no project params", func(t *testing.T) {
		init := ResolveInitial(ParseQuery("extension-search=kafka"), stored, log)
		require.Equal(t, SourceStore, init.Source)
		require.Equal(t, "com.stored", init.Project.GroupID)
		require.Equal(t, "kafka", init.Filter)
	})

	t.Run("malformed store falls back to defaults", func(t *testing.T) {
		bad := storage.NewMemoryStore()
		require.NoError(t, bad.Set(StoreKey, []byte("{")))

		init := ResolveInitial(url.Values{}, bad, log)
		require.Equal(t, SourceDefaults, init.Source)
		require.True(t, models.NewDefaultProject().Equal(init.Project))
	})

	t.Run("unreadable store falls back to defaults", func(t *testing.T) {
		broken := storage.NewMemoryStore()
		broken.GetError = errors.New("disk on fire")

		init := ResolveInitial(url.Values{}, broken, log)
		require.Equal(t, SourceDefaults, init.Source)
	})

	t.Run("no store", func(t *testing.T) {
		init := ResolveInitial(nil, nil, log)
		require.Equal(t, SourceDefaults, init.Source)
	})
}

func newTestSynchronizer() (*Synchronizer, *URLSink, *storage.MemoryStore) {
	urlSink := NewURLSink("https://code.quarkus.io", nil)
	store := storage.NewMemoryStore()
	s := NewSynchronizer(time.Millisecond, logger.NewNop(), urlSink, NewStoreSink(store))
	return s, urlSink, store
}

func TestSynchronizer_DebouncesRapidEdits(t *testing.T) {
	s, urlSink, store := newTestSynchronizer()
	base := models.NewDefaultProject()

	require.Equal(t, StateIdle, s.State())

	c1 := s.Edit(Apply(base, WithArtifactID("app-1")))
	c2 := s.Edit(Apply(base, WithArtifactID("app-2")))
	c3 := s.Edit(Apply(base, WithArtifactID("app-3")))
	require.Equal(t, StatePendingLocal, s.State())

	require.Nil(t, s.Update(c1()))
	require.Nil(t, s.Update(c2()))
	require.Equal(t, StatePendingLocal, s.State())

	write := s.Update(c3())
	require.NotNil(t, write)
	require.Equal(t, StateSyncing, s.State())

	require.Nil(t, s.Update(write()))
	require.Equal(t, StateIdle, s.State())

	require.Equal(t, 1, urlSink.Writes())
	require.Equal(t, "https://code.quarkus.io/?a=app-3", urlSink.Current())
	require.Equal(t, 1, store.WriteCount())

	loaded, err := LoadStored(store)
	require.NoError(t, err)
	require.Equal(t, "app-3", loaded.ArtifactID)
}

func TestSynchronizer_EditDuringSyncIsQueued(t *testing.T) {
	s, urlSink, _ := newTestSynchronizer()
	base := models.NewDefaultProject()

	write := s.Update(s.Edit(Apply(base, WithArtifactID("first")))())
	require.Equal(t, StateSyncing, s.State())

	require.Nil(t, s.Edit(Apply(base, WithArtifactID("second"))))
	require.Equal(t, StateSyncing, s.State())

	tick := s.Update(write())
	require.NotNil(t, tick)
	require.Equal(t, StatePendingLocal, s.State())
	require.Equal(t, "https://code.quarkus.io/?a=first", urlSink.Current())

	second := s.Update(tick())
	require.NotNil(t, second)
	require.Nil(t, s.Update(second()))

	require.Equal(t, StateIdle, s.State())
	require.Equal(t, 2, urlSink.Writes())
	require.Equal(t, "https://code.quarkus.io/?a=second", urlSink.Current())
}

func TestSynchronizer_FlushWinsOverInFlightWrite(t *testing.T) {
	s, urlSink, store := newTestSynchronizer()
	base := models.NewDefaultProject()

	write := s.Update(s.Edit(Apply(base, WithArtifactID("old")))())
	s.Edit(Apply(base, WithArtifactID("new")))

	require.NoError(t, s.Flush())
	require.Equal(t, StateIdle, s.State())

	require.Nil(t, s.Update(write()))

	require.Equal(t, "https://code.quarkus.io/?a=new", urlSink.Current())
	loaded, err := LoadStored(store)
	require.NoError(t, err)
	require.Equal(t, "new", loaded.ArtifactID)

	require.NoError(t, s.Flush(), "nothing pending")
}

func TestSynchronizer_SinkErrorReturnsToIdle(t *testing.T) {
	failing := SinkFunc(func(*models.ProjectDefinition) error { return errors.New("boom") })
	s := NewSynchronizer(time.Millisecond, nil, failing)

	write := s.Update(s.Edit(models.NewDefaultProject())())
	msg := write()

	synced, ok := msg.(SyncedMsg)
	require.True(t, ok)
	require.EqualError(t, synced.Err, "boom")

	require.Nil(t, s.Update(msg))
	require.Equal(t, StateIdle, s.State())
}

func TestSynchronizer_Discard(t *testing.T) {
	s, urlSink, store := newTestSynchronizer()
	base := models.NewDefaultProject()

	tick := s.Edit(Apply(base, WithArtifactID("dropped")))
	s.Discard()
	require.Equal(t, StateIdle, s.State())
	require.Nil(t, s.Pending())
	require.Nil(t, s.Update(tick()))
	require.NoError(t, s.Flush())

	write := s.Update(s.Edit(Apply(base, WithArtifactID("in-flight")))())
	require.NotNil(t, write)
	s.Discard()
	require.Nil(t, s.Update(write()))

	require.Equal(t, StateIdle, s.State())
	require.Equal(t, 0, urlSink.Writes())
	require.Equal(t, 0, store.WriteCount())
}
