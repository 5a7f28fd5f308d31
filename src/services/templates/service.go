package templates

import (
	"context"
	"errors"
	"log"
	"strings"

	"Backend-FormForge/src/database"
	"Backend-FormForge/src/models"
	"Backend-FormForge/src/schema"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var formCollection *mongo.Collection

func init() {
	// เชื่อมต่อกับ MongoDB
	if err := database.ConnectMongoDB(); err != nil {
		log.Fatal("MongoDB connection error:", err)
	}

	formCollection = database.FormCollection
	if formCollection == nil {
		log.Fatal("Failed to get the forms collection")
	}
}

var (
	ErrFormNotFound = errors.New("form not found")
	ErrEmptyName    = errors.New("template name is required")
	ErrInvalidLevel = errors.New("invalid level")

	ErrNotLoaded  = errors.New("form could not be loaded")
	ErrNotCreated = errors.New("form could not be created")
	ErrNotUpdated = errors.New("form could not be updated")
	ErrNotDeleted = errors.New("form could not be deleted")
)

// GetForms ดึง templates ทั้งหมดแบบแบ่งหน้า
func GetForms(ctx context.Context, params models.PaginationParams) (*models.PaginatedResponse, error) {
	filter := bson.M{}
	if params.Search != "" {
		filter["templateName"] = bson.M{"$regex": params.Search, "$options": "i"}
	}

	total, err := formCollection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, ErrNotLoaded
	}

	sortKey := params.SortBy
	order := 1
	if params.Order == "desc" {
		order = -1
	}
	opts := options.Find().
		SetSkip(params.GetSkip()).
		SetLimit(int64(params.Limit)).
		SetSort(bson.D{{Key: sortKey, Value: order}})

	cursor, err := formCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, ErrNotLoaded
	}
	defer cursor.Close(ctx)

	var forms []models.Template
	if err = cursor.All(ctx, &forms); err != nil {
		return nil, ErrNotLoaded
	}
	for i := range forms {
		forms[i].Normalize()
	}

	return models.NewPaginatedResponse(forms, total, params), nil
}

// GetFormByID ดึง template เดียวพร้อมเติม default ให้ forest ที่ decode มา
func GetFormByID(ctx context.Context, formID primitive.ObjectID) (*models.Template, error) {
	var form models.Template
	err := formCollection.FindOne(ctx, bson.M{"_id": formID}).Decode(&form)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrFormNotFound
		}
		return nil, ErrNotLoaded
	}
	form.Normalize()
	return &form, nil
}

// CreateForm สร้าง template เปล่า ทั้งสาม levels เป็น array ว่าง
func CreateForm(ctx context.Context, templateName string) (*models.Template, error) {
	if strings.TrimSpace(templateName) == "" {
		return nil, ErrEmptyName
	}

	form := &models.Template{
		TemplateName: strings.TrimSpace(templateName),
		Header:       models.SectionForest{},
		Lines:        models.SectionForest{},
		LineDetails:  models.SectionForest{},
	}

	result, err := formCollection.InsertOne(ctx, form)
	if err != nil {
		return nil, ErrNotCreated
	}
	form.ID = result.InsertedID.(primitive.ObjectID)
	return form, nil
}

// DeleteForm ลบ template ทิ้งทั้งก้อน (cascade ไปทุก section ที่ template ถือ)
func DeleteForm(ctx context.Context, formID primitive.ObjectID) error {
	result, err := formCollection.DeleteOne(ctx, bson.M{"_id": formID})
	if err != nil {
		return ErrNotDeleted
	}
	if result.DeletedCount == 0 {
		return ErrFormNotFound
	}
	return nil
}

// OverwriteForest คือ primitive เดียวของ structural mutation:
// เขียน forest ใหม่ทับทั้ง level ในหนึ่ง atomic write
// ถ้า write ล้มเหลว store ยังเป็นค่าก่อนหน้า — ไม่มีการ apply บางส่วน
func OverwriteForest(ctx context.Context, formID primitive.ObjectID, level string, forest models.SectionForest) (*models.Template, error) {
	if !models.IsValidLevel(level) {
		return nil, ErrInvalidLevel
	}
	if forest == nil {
		forest = models.SectionForest{}
	}

	result, err := formCollection.UpdateOne(ctx,
		bson.M{"_id": formID},
		bson.M{"$set": bson.M{level: forest}},
	)
	if err != nil {
		return nil, ErrNotUpdated
	}
	if result.MatchedCount == 0 {
		return nil, ErrFormNotFound
	}
	return GetFormByID(ctx, formID)
}

// loadForest โหลด template และหยิบ forest ของ level ที่ขอ
func loadForest(ctx context.Context, formID primitive.ObjectID, level string) (*models.Template, models.SectionForest, error) {
	if !models.IsValidLevel(level) {
		return nil, nil, ErrInvalidLevel
	}
	form, err := GetFormByID(ctx, formID)
	if err != nil {
		return nil, nil, err
	}
	switch level {
	case models.LevelHeader:
		return form, form.Header, nil
	case models.LevelLines:
		return form, form.Lines, nil
	default:
		return form, form.LineDetails, nil
	}
}

// AddTab เพิ่ม tab ใหม่ใน level แล้ว persist ทั้ง forest
func AddTab(ctx context.Context, formID primitive.ObjectID, level, name string) (*models.Template, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	_, forest, err := loadForest(ctx, formID, level)
	if err != nil {
		return nil, err
	}
	updated, _ := schema.AddTab(forest, strings.TrimSpace(name))
	return OverwriteForest(ctx, formID, level, updated)
}

// DeleteTab ลบ tab พร้อมทุกอย่างข้างใน (การยืนยันเป็นหน้าที่ของ UI)
func DeleteTab(ctx context.Context, formID primitive.ObjectID, level, tabID string) (*models.Template, error) {
	_, forest, err := loadForest(ctx, formID, level)
	if err != nil {
		return nil, err
	}
	updated, err := schema.DeleteTab(forest, tabID)
	if err != nil {
		return nil, err
	}
	return OverwriteForest(ctx, formID, level, updated)
}

// AddField เพิ่ม field ใหม่หลังตรวจชื่อซ้ำข้าม header ∪ lines
func AddField(ctx context.Context, formID primitive.ObjectID, level, tabID string, req models.FieldRequest) (*models.Template, error) {
	form, forest, err := loadForest(ctx, formID, level)
	if err != nil {
		return nil, err
	}
	if err := schema.CheckNameUnique(form, req.FieldName, ""); err != nil {
		return nil, err
	}
	updated, _, err := schema.AddField(forest, tabID, req)
	if err != nil {
		return nil, err
	}
	return OverwriteForest(ctx, formID, level, updated)
}

// EditField แก้ attributes ของ field (ชื่อเดิมของตัวเองไม่นับว่าซ้ำ)
func EditField(ctx context.Context, formID primitive.ObjectID, level, tabID, fieldID string, req models.FieldRequest) (*models.Template, error) {
	form, forest, err := loadForest(ctx, formID, level)
	if err != nil {
		return nil, err
	}
	if err := schema.CheckNameUnique(form, req.FieldName, fieldID); err != nil {
		return nil, err
	}
	updated, err := schema.EditField(forest, tabID, fieldID, req)
	if err != nil {
		return nil, err
	}
	return OverwriteForest(ctx, formID, level, updated)
}

// DeleteField ลบ field ออกจาก tab
func DeleteField(ctx context.Context, formID primitive.ObjectID, level, tabID, fieldID string) (*models.Template, error) {
	_, forest, err := loadForest(ctx, formID, level)
	if err != nil {
		return nil, err
	}
	updated, err := schema.DeleteField(forest, tabID, fieldID)
	if err != nil {
		return nil, err
	}
	return OverwriteForest(ctx, formID, level, updated)
}

// AddColumns เพิ่ม columns เข้า table field ของ tab (สร้าง table field ให้ถ้ายังไม่มี)
func AddColumns(ctx context.Context, formID primitive.ObjectID, level, tabID string, reqs []models.ColumnRequest) (*models.Template, error) {
	form, forest, err := loadForest(ctx, formID, level)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(reqs))
	for i, r := range reqs {
		names[i] = r.Name
	}
	if err := schema.CheckNamesUnique(form, names); err != nil {
		return nil, err
	}
	updated, err := schema.AddColumns(forest, tabID, reqs)
	if err != nil {
		return nil, err
	}
	return OverwriteForest(ctx, formID, level, updated)
}

// EditColumn แก้ attributes ของ column (type เปลี่ยนไม่ได้)
func EditColumn(ctx context.Context, formID primitive.ObjectID, level, tabID, columnID string, req models.ColumnRequest) (*models.Template, error) {
	form, forest, err := loadForest(ctx, formID, level)
	if err != nil {
		return nil, err
	}
	if err := schema.CheckNameUnique(form, req.Name, columnID); err != nil {
		return nil, err
	}
	updated, err := schema.EditColumn(forest, tabID, columnID, req)
	if err != nil {
		return nil, err
	}
	return OverwriteForest(ctx, formID, level, updated)
}

// DeleteColumn ลบ column ออกจาก table field
func DeleteColumn(ctx context.Context, formID primitive.ObjectID, level, tabID, fieldID, columnID string) (*models.Template, error) {
	_, forest, err := loadForest(ctx, formID, level)
	if err != nil {
		return nil, err
	}
	updated, err := schema.DeleteColumn(forest, tabID, fieldID, columnID)
	if err != nil {
		return nil, err
	}
	return OverwriteForest(ctx, formID, level, updated)
}
